package services

import (
	"errors"
	"regexp"
)

// CredentialStatus is the outcome of a phone+PIN check, terminal for the
// presentation layer: none of these escalate.
type CredentialStatus string

const (
	CredentialOK            CredentialStatus = "ok"
	CredentialNotFound      CredentialStatus = "not_found"
	CredentialNotRegistered CredentialStatus = "not_registered"
	CredentialBadPIN        CredentialStatus = "bad_pin"
)

var nonDigits = regexp.MustCompile(`\D+`)

// NormalizeDigits strips everything that is not a digit, so "809-123-4567"
// and "809 123 4567" both match a roster phone. Applied to phones and PINs
// before any lookup or comparison.
func NormalizeDigits(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}

// ExchangeService is the participant-facing surface of the exchange. It
// normalizes raw input and enforces the validate-before-reveal ordering; all
// state lives in the participant store.
type ExchangeService struct {
	store       *ParticipantService
	pinRequired bool
}

func NewExchangeService(store *ParticipantService, pinRequired bool) *ExchangeService {
	return &ExchangeService{store: store, pinRequired: pinRequired}
}

// Register registers the participant behind the raw phone input. The PIN in
// the result must only be shown to the caller when WasNew is true: it is
// displayed once at first registration and never again.
func (s *ExchangeService) Register(rawPhone string) (*RegistrationResult, error) {
	return s.store.Register(NormalizeDigits(rawPhone))
}

// ValidateCredentials checks phone+PIN and reports the participant's name
// alongside the status so the UI can greet them even on failure paths. The
// stored PIN is never part of the answer.
func (s *ExchangeService) ValidateCredentials(rawPhone, rawPIN string) (CredentialStatus, string, error) {
	p, err := s.store.Fetch(NormalizeDigits(rawPhone))
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) {
			return CredentialNotFound, "", nil
		}
		return "", "", err
	}

	if !p.Registered() {
		return CredentialNotRegistered, p.Name, nil
	}
	if s.pinRequired {
		if p.PIN == nil || NormalizeDigits(rawPIN) != *p.PIN {
			return CredentialBadPIN, p.Name, nil
		}
	}
	return CredentialOK, p.Name, nil
}

// Reveal discloses the participant's assigned recipient. Credentials are
// validated first, always: the recipient name must never leave the store
// without a passing PIN check, even though the reveal itself is idempotent.
func (s *ExchangeService) Reveal(rawPhone, rawPIN string) (CredentialStatus, string, *RevealResult, error) {
	status, name, err := s.ValidateCredentials(rawPhone, rawPIN)
	if err != nil || status != CredentialOK {
		return status, name, nil, err
	}

	result, err := s.store.RevealAssignment(NormalizeDigits(rawPhone))
	if err != nil {
		return status, name, nil, err
	}
	return CredentialOK, name, result, nil
}
