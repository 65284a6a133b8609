package services

import (
	"context"
	"errors"
	"fmt"

	"telemed.link/configs/configslog"
	"telemed.link/models"
	"telemed.link/repositories"

	"go.uber.org/zap"
)

// RoleServiceError yetki servisi hataları.
type RoleServiceError string

func (e RoleServiceError) Error() string { return string(e) }

// Hata sabitleri
const (
	ErrUnauthorized    RoleServiceError = "bu işlem için yetkiniz yok"
	ErrAccountNotFound RoleServiceError = "hesap bulunamadı"
	ErrInvalidRole     RoleServiceError = "geçersiz yetki türü"
)

// IRoleService adresleri Admin/Doctor/Patient yetki kümelerine alır/çıkarır.
// Admin kendi kendini yönetir; Doctor yalnızca doğrulama iş akışının,
// Patient yalnızca kaydın son adımı olarak verilir.
type IRoleService interface {
	HasCapability(ctx context.Context, address string, role models.Role) (bool, error)
	Require(ctx context.Context, address string, role models.Role) error
	Grant(ctx context.Context, adminAddress, targetAddress string, role models.Role) error
	Revoke(ctx context.Context, adminAddress, targetAddress string, role models.Role) error
}

// RoleService IRoleService arayüzünü uygular.
type RoleService struct {
	accounts repositories.IAccountRepository
	tx       repositories.ITxManager
	events   IEventService
}

// NewRoleService yeni bir RoleService örneği oluşturur.
func NewRoleService() IRoleService {
	return &RoleService{
		accounts: repositories.NewAccountRepository(),
		tx:       repositories.NewTxManager(configsDB()),
		events:   NewEventService(),
	}
}

// HasCapability adresin yetkiyi taşıyıp taşımadığını döndürür.
// Hesabın hiç olmaması yetkisizlikle eşdeğerdir.
func (s *RoleService) HasCapability(ctx context.Context, address string, role models.Role) (bool, error) {
	account, err := s.accounts.FindByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return account.HasRole(role), nil
}

// Require yetki yoksa ErrUnauthorized döner; hiçbir durum değişikliği yapmaz.
func (s *RoleService) Require(ctx context.Context, address string, role models.Role) error {
	ok, err := s.HasCapability(ctx, address, role)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

// Grant hedef adrese yetki verir (yalnızca admin).
func (s *RoleService) Grant(ctx context.Context, adminAddress, targetAddress string, role models.Role) error {
	return s.setRole(ctx, adminAddress, targetAddress, role, true)
}

// Revoke hedef adresten yetkiyi alır (yalnızca admin).
func (s *RoleService) Revoke(ctx context.Context, adminAddress, targetAddress string, role models.Role) error {
	return s.setRole(ctx, adminAddress, targetAddress, role, false)
}

func (s *RoleService) setRole(ctx context.Context, adminAddress, targetAddress string, role models.Role, value bool) error {
	if role != models.RoleAdmin && role != models.RoleDoctor && role != models.RolePatient {
		return ErrInvalidRole
	}

	txErr := s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := s.Require(txCtx, adminAddress, models.RoleAdmin); err != nil {
			return err
		}
		account, err := s.accounts.FindByAddressForUpdate(txCtx, targetAddress)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrAccountNotFound
			}
			return err
		}
		switch role {
		case models.RoleAdmin:
			account.IsAdmin = value
		case models.RoleDoctor:
			account.IsDoctor = value
		case models.RolePatient:
			account.IsPatient = value
		}
		return s.accounts.Update(txCtx, account)
	})
	if txErr != nil {
		configslog.Log.Error("RoleService.setRole başarısız",
			zap.String("admin", adminAddress), zap.String("target", targetAddress),
			zap.String("role", string(role)), zap.Bool("value", value), zap.Error(txErr))
		return txErr
	}

	configslog.SLog.Infof("Yetki güncellendi: %s -> %s=%t (admin: %s)", targetAddress, role, value, adminAddress)
	return nil
}

// grantRoleInTx iş akışlarının terminal adımı: transaction içinde yetki bayrağını açar.
// Hesap yoksa oluşturur (doğrulama onayıyla gelen doktor hesapları için).
func grantRoleInTx(txCtx context.Context, accounts repositories.IAccountRepository, address string, role models.Role) error {
	account, err := accounts.FindByAddressForUpdate(txCtx, address)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		account = &models.Account{Address: address}
		switch role {
		case models.RoleAdmin:
			account.IsAdmin = true
		case models.RoleDoctor:
			account.IsDoctor = true
		case models.RolePatient:
			account.IsPatient = true
		}
		return accounts.Create(txCtx, account)
	}
	switch role {
	case models.RoleAdmin:
		account.IsAdmin = true
	case models.RoleDoctor:
		account.IsDoctor = true
	case models.RolePatient:
		account.IsPatient = true
	default:
		return fmt.Errorf("%w: %s", ErrInvalidRole, role)
	}
	return accounts.Update(txCtx, account)
}

var _ IRoleService = (*RoleService)(nil)
