package models

import "trendora/internal/query"

// Query schemas declare, per entity, which fields callers may sort, filter or
// search on, and which relations they may eager-load. The query compiler
// rejects anything not listed here, so these maps are the only place a client
// supplied name can reach an identifier position.

// OrderSchema describes the queryable surface of Order.
func OrderSchema() query.Schema {
	return query.Schema{
		Table: "orders",
		Columns: map[string]string{
			"id":          "orders.id",
			"status":      "orders.status",
			"address":     "orders.address",
			"deliveryFee": "orders.delivery_fee",
			"totalAmount": "orders.total_amount",
			"userId":      "orders.user_id",
			"createdAt":   "orders.created_at",
		},
		Relations: map[string]string{
			"user":               "User",
			"orderItems":         "OrderItems",
			"orderItems.product": "OrderItems.Product",
		},
	}
}

// OrderItemSchema describes the queryable surface of OrderItem.
func OrderItemSchema() query.Schema {
	return query.Schema{
		Table: "order_items",
		Columns: map[string]string{
			"id":         "order_items.id",
			"quantity":   "order_items.quantity",
			"unitPrice":  "order_items.unit_price",
			"totalPrice": "order_items.total_price",
			"orderId":    "order_items.order_id",
			"productId":  "order_items.product_id",
			"createdAt":  "order_items.created_at",
		},
		Relations: map[string]string{
			"order":   "Order",
			"product": "Product",
		},
	}
}

// ProductSchema describes the queryable surface of Product.
func ProductSchema() query.Schema {
	return query.Schema{
		Table: "products",
		Columns: map[string]string{
			"id":         "products.id",
			"name":       "products.name",
			"price":      "products.price",
			"inventory":  "products.inventory",
			"brandId":    "products.brand_id",
			"categoryId": "products.category_id",
			"vendorId":   "products.vendor_id",
			"createdAt":  "products.created_at",
		},
		Relations: map[string]string{
			"brand":    "Brand",
			"category": "Category",
			"vendor":   "Vendor",
		},
	}
}

// BrandSchema describes the queryable surface of Brand.
func BrandSchema() query.Schema {
	return query.Schema{
		Table: "brands",
		Columns: map[string]string{
			"id":   "brands.id",
			"name": "brands.name",
		},
		Relations: map[string]string{
			"products": "Products",
		},
	}
}

// CategorySchema describes the queryable surface of Category.
func CategorySchema() query.Schema {
	return query.Schema{
		Table: "categories",
		Columns: map[string]string{
			"id":   "categories.id",
			"name": "categories.name",
		},
		Relations: map[string]string{
			"products": "Products",
		},
	}
}
