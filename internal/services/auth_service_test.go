package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"trendora/internal/apperrors"
	"trendora/internal/models"
	"trendora/internal/services"
)

const testJWTSecret = "test_secret"

func TestAuthService_RegisterUserHashesPasswordAndIssuesOTP(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := services.NewAuthService(userRepo, testJWTSecret)

	user := &models.User{
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Password:  "plaintext",
	}

	userRepo.On("GetByEmail", user.Email).Return(nil, apperrors.NewNotFound("user", user.Email)).Once()
	userRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()

	assert.NoError(t, service.RegisterUser(user))

	// Password must be stored hashed and verifiable.
	assert.NotEqual(t, "plaintext", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("plaintext")))

	assert.Equal(t, models.RoleBuyer, user.Role)
	assert.False(t, user.Verified)
	if assert.NotNil(t, user.OTP) {
		assert.GreaterOrEqual(t, *user.OTP, 100000)
		assert.LessOrEqual(t, *user.OTP, 999999)
	}
	userRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUserRejectsDuplicateEmail(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := services.NewAuthService(userRepo, testJWTSecret)

	existing := &models.User{ID: "u1", Email: "taken@example.com"}
	userRepo.On("GetByEmail", existing.Email).Return(existing, nil).Once()

	err := service.RegisterUser(&models.User{Email: existing.Email, FirstName: "X", LastName: "Y", Password: "secret"})
	assert.True(t, apperrors.IsValidation(err))
	userRepo.AssertExpectations(t)
}

func TestAuthService_LoginAndValidateToken(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := services.NewAuthService(userRepo, testJWTSecret)

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	user := &models.User{ID: "u1", Email: "ada@example.com", Password: string(hashed), Role: models.RoleAdmin}

	userRepo.On("GetByEmail", user.Email).Return(user, nil)

	token, err := service.LoginUser(user.Email, "secret")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "u1", claims["user_id"])
	assert.Equal(t, "admin", claims["role"])

	// Wrong password.
	_, err = service.LoginUser(user.Email, "wrong")
	assert.Error(t, err)

	// Unknown user.
	userRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.NewNotFound("user", "ghost@example.com"))
	_, err = service.LoginUser("ghost@example.com", "secret")
	assert.Error(t, err)
}

func TestAuthService_ValidateTokenRejectsTampering(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := services.NewAuthService(userRepo, testJWTSecret)
	other := services.NewAuthService(userRepo, "different_secret")

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	user := &models.User{ID: "u1", Email: "ada@example.com", Password: string(hashed)}
	userRepo.On("GetByEmail", user.Email).Return(user, nil)

	token, err := other.LoginUser(user.Email, "secret")
	assert.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)

	_, err = service.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestAuthService_VerifyAccount(t *testing.T) {
	userRepo := new(MockUserRepository)
	service := services.NewAuthService(userRepo, testJWTSecret)

	otp := 123456
	user := &models.User{ID: "u1", Email: "ada@example.com", OTP: &otp}
	userRepo.On("GetByEmail", user.Email).Return(user, nil)
	userRepo.On("Updates", "u1", map[string]interface{}{"verified": true, "otp": nil}).Return(nil).Once()

	assert.NoError(t, service.VerifyAccount(user.Email, 123456))

	err := service.VerifyAccount(user.Email, 654321)
	assert.True(t, apperrors.IsValidation(err))
	userRepo.AssertExpectations(t)
}
