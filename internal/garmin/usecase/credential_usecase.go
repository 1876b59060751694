package usecase

import (
	"log"
	"strings"
	"time"

	garmindomain "runsight-backend/internal/garmin/domain"
	garmindto "runsight-backend/internal/garmin/dto"
	"runsight-backend/internal/garmin/repository"
	"runsight-backend/pkg/crypto"
)

// credentialUsecase implements CredentialUsecase interface
type credentialUsecase struct {
	credentialRepo repository.CredentialRepository
	vault          *crypto.Vault
}

// NewCredentialUsecase creates a new instance of credentialUsecase
func NewCredentialUsecase(credentialRepo repository.CredentialRepository, vault *crypto.Vault) CredentialUsecase {
	return &credentialUsecase{
		credentialRepo: credentialRepo,
		vault:          vault,
	}
}

func (u *credentialUsecase) Connect(userID, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	encryptedEmail, err := u.vault.Encrypt(email)
	if err != nil {
		return err
	}
	encryptedPassword, err := u.vault.Encrypt(password)
	if err != nil {
		return err
	}

	return u.credentialRepo.Upsert(&garmindomain.Credential{
		UserID:            userID,
		EncryptedEmail:    encryptedEmail,
		EncryptedPassword: encryptedPassword,
	})
}

func (u *credentialUsecase) Update(userID, email, password string) error {
	existing, err := u.credentialRepo.FindByUser(userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotConnected
	}
	return u.Connect(userID, email, password)
}

func (u *credentialUsecase) Status(userID string) (*garmindto.ConnectionStatus, error) {
	credential, err := u.credentialRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if credential == nil {
		return &garmindto.ConnectionStatus{Connected: false}, nil
	}

	status := &garmindto.ConnectionStatus{Connected: true}
	if credential.LastSync != nil {
		formatted := credential.LastSync.UTC().Format(time.RFC3339)
		status.LastSync = &formatted
	}

	email, err := u.vault.Decrypt(credential.EncryptedEmail)
	if err != nil {
		// The record exists but the key changed; report connected without
		// the address rather than failing the status call.
		log.Printf("[WARN] could not decrypt stored email for user %s: %v", userID, err)
		return status, nil
	}
	status.Email = maskEmail(email)
	return status, nil
}

func (u *credentialUsecase) Disconnect(userID string) error {
	existing, err := u.credentialRepo.FindByUser(userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotConnected
	}
	return u.credentialRepo.DeleteByUser(userID)
}

// maskEmail hides most of the local part: "runner@example.com" -> "ru***@example.com".
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	visible := 2
	if at < visible {
		visible = at
	}
	return email[:visible] + "***" + email[at:]
}
