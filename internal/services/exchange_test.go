package services

import (
	"errors"
	"testing"
)

func newTestExchange(t *testing.T, pinRequired bool) (*ExchangeService, *ParticipantService) {
	t.Helper()
	store := newTestStore(t)
	return NewExchangeService(store, pinRequired), store
}

func TestNormalizeDigits(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"8091234567":     "8091234567",
		"809-123-4567":   "8091234567",
		"(809) 123 4567": "8091234567",
		"+1 809.123":     "1809123",
		"abc":            "",
		"":               "",
	}
	for input, want := range cases {
		if got := NormalizeDigits(input); got != want {
			t.Errorf("NormalizeDigits(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestExchangeRegisterNormalizesPhone(t *testing.T) {
	t.Parallel()
	exchange, _ := newTestExchange(t, true)

	result, err := exchange.Register(" 1-1-1 ")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if result.Name != "A" || !result.WasNew {
		t.Errorf("Register() = %+v, want A / WasNew", result)
	}
}

func TestExchangeRegisterUnknownPhone(t *testing.T) {
	t.Parallel()
	exchange, _ := newTestExchange(t, true)

	if _, err := exchange.Register("809-999-9999"); !errors.Is(err, ErrParticipantNotFound) {
		t.Errorf("Register(unknown) error = %v, want ErrParticipantNotFound", err)
	}
}

func TestValidateCredentialsStateMachine(t *testing.T) {
	t.Parallel()
	exchange, _ := newTestExchange(t, true)

	status, _, err := exchange.ValidateCredentials("999", "123456")
	if err != nil {
		t.Fatalf("ValidateCredentials() error: %v", err)
	}
	if status != CredentialNotFound {
		t.Errorf("unknown phone: status = %q, want %q", status, CredentialNotFound)
	}

	status, name, err := exchange.ValidateCredentials("111", "123456")
	if err != nil {
		t.Fatalf("ValidateCredentials() error: %v", err)
	}
	if status != CredentialNotRegistered || name != "A" {
		t.Errorf("unregistered: status = %q name = %q, want %q A", status, name, CredentialNotRegistered)
	}

	reg, err := exchange.Register("111")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	wrong := "000000"
	if wrong == reg.PIN {
		wrong = "000001"
	}
	status, _, err = exchange.ValidateCredentials("111", wrong)
	if err != nil {
		t.Fatalf("ValidateCredentials() error: %v", err)
	}
	if status != CredentialBadPIN {
		t.Errorf("wrong PIN: status = %q, want %q", status, CredentialBadPIN)
	}

	status, name, err = exchange.ValidateCredentials("111", reg.PIN)
	if err != nil {
		t.Fatalf("ValidateCredentials() error: %v", err)
	}
	if status != CredentialOK || name != "A" {
		t.Errorf("correct PIN: status = %q name = %q, want %q A", status, name, CredentialOK)
	}
}

func TestRevealRequiresValidCredentials(t *testing.T) {
	t.Parallel()
	exchange, store := newTestExchange(t, true)

	status, _, result, err := exchange.Reveal("111", "123456")
	if err != nil {
		t.Fatalf("Reveal() error: %v", err)
	}
	if status != CredentialNotRegistered || result != nil {
		t.Fatalf("Reveal() before registration: status = %q result = %v", status, result)
	}

	reg, err := exchange.Register("111")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	wrong := "000000"
	if wrong == reg.PIN {
		wrong = "000001"
	}
	status, _, result, err = exchange.Reveal("111", wrong)
	if err != nil {
		t.Fatalf("Reveal() error: %v", err)
	}
	if status != CredentialBadPIN || result != nil {
		t.Fatalf("Reveal() with wrong PIN: status = %q result = %v", status, result)
	}

	// A failed reveal must not stamp revealed_at.
	p, err := store.Fetch("111")
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if p.RevealedAt != nil {
		t.Fatal("revealed_at set by a rejected reveal")
	}

	status, name, result, err := exchange.Reveal("111", reg.PIN)
	if err != nil {
		t.Fatalf("Reveal() error: %v", err)
	}
	if status != CredentialOK || name != "A" {
		t.Fatalf("Reveal() status = %q name = %q, want ok A", status, name)
	}
	if result.RecipientName != "B" && result.RecipientName != "C" {
		t.Errorf("recipient = %q, want B or C", result.RecipientName)
	}
	if !result.First {
		t.Error("first Reveal() returned First=false")
	}

	again, _, repeat, err := exchange.Reveal("111", reg.PIN)
	if err != nil {
		t.Fatalf("repeat Reveal() error: %v", err)
	}
	if again != CredentialOK || repeat.First {
		t.Errorf("repeat Reveal() status = %q First = %v", again, repeat.First)
	}
	if repeat.RecipientName != result.RecipientName || !repeat.RevealedAt.Equal(result.RevealedAt) {
		t.Errorf("repeat Reveal() = %+v, want identical to first %+v", repeat, result)
	}
}

func TestRevealWithoutPINRequirement(t *testing.T) {
	t.Parallel()
	exchange, _ := newTestExchange(t, false)

	if _, err := exchange.Register("111"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	// With PIN gating off, any PIN input passes as long as the
	// participant is registered.
	status, _, result, err := exchange.Reveal("111", "whatever")
	if err != nil {
		t.Fatalf("Reveal() error: %v", err)
	}
	if status != CredentialOK || result == nil {
		t.Fatalf("Reveal() without PIN gating: status = %q result = %v", status, result)
	}
}
