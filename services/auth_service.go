package services

import (
	"context"
	"errors"
	"time"

	"telemed.link/configs"
	"telemed.link/configs/configslog"
	"telemed.link/models"
	"telemed.link/repositories"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceError kimlik doğrulama hataları.
type AuthServiceError string

func (e AuthServiceError) Error() string { return string(e) }

const (
	ErrInvalidCredentials AuthServiceError = "adres veya gizli anahtar hatalı"
	ErrTokenInvalid       AuthServiceError = "geçersiz veya süresi dolmuş token"
)

// TokenTTL verilen erişim tokenlarının geçerlilik süresi.
const TokenTTL = 12 * time.Hour

// SessionClaims tokena gömülen adres ve yetki bayrakları.
type SessionClaims struct {
	Address string        `json:"address"`
	Roles   []models.Role `json:"roles"`
	jwt.RegisteredClaims
}

// IAuthService adres + gizli anahtar ile oturum açma ve token doğrulama.
type IAuthService interface {
	Login(ctx context.Context, address, secret string) (string, error)
	ParseToken(tokenString string) (*SessionClaims, error)
}

// AuthService IAuthService arayüzünü uygular.
type AuthService struct {
	accounts repositories.IAccountRepository
	secret   []byte
	now      func() time.Time
}

// NewAuthService yeni bir AuthService örneği oluşturur.
func NewAuthService() IAuthService {
	return &AuthService{
		accounts: repositories.NewAccountRepository(),
		secret:   []byte(configs.GetJWTSecret()),
		now:      defaultClock(),
	}
}

// Login adres ve gizli anahtarı doğrular, imzalı bir erişim tokenı döndürür.
// Hesap yok ile anahtar yanlış aynı hatayı üretir.
func (s *AuthService) Login(ctx context.Context, address, secret string) (string, error) {
	account, err := s.accounts.FindByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		configslog.Log.Error("AuthService.Login: DB hatası", zap.String("address", address), zap.Error(err))
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.SecretHash), []byte(secret)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := s.now()
	claims := SessionClaims{
		Address: account.Address,
		Roles:   accountRoles(account),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Address,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		configslog.Log.Error("AuthService.Login: token imzalanamadı", zap.Error(err))
		return "", err
	}
	configslog.SLog.Infof("Oturum açıldı: %s", account.Address)
	return signed, nil
}

// ParseToken token imzasını ve süresini doğrular, claim'leri döndürür.
func (s *AuthService) ParseToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func accountRoles(account *models.Account) []models.Role {
	var roles []models.Role
	if account.IsAdmin {
		roles = append(roles, models.RoleAdmin)
	}
	if account.IsDoctor {
		roles = append(roles, models.RoleDoctor)
	}
	if account.IsPatient {
		roles = append(roles, models.RolePatient)
	}
	return roles
}

var _ IAuthService = (*AuthService)(nil)
