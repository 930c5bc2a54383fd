package signer

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

const testKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

func TestSignAndRecover(t *testing.T) {
	s, err := New("0x" + testKey)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	msg := []byte(`{"petId":"p1"}`)

	sig, err := s.Sign(msg)
	if err != nil {
		t.Fatalf("Sign returned error: %v", err)
	}
	if !strings.HasPrefix(sig, "0x") || len(sig) != 2+2*crypto.SignatureLength {
		t.Fatalf("unexpected signature format %s", sig)
	}
	if v := sig[len(sig)-2:]; v != "1b" && v != "1c" {
		t.Fatalf("expected legacy recovery id, got %s", v)
	}

	addr, err := Recover(msg, sig)
	if err != nil {
		t.Fatalf("Recover returned error: %v", err)
	}
	if addr != s.Address() {
		t.Fatalf("recovered %s, want %s", addr, s.Address())
	}

	other, err := Recover([]byte("tampered"), sig)
	if err != nil {
		t.Fatal(err)
	}
	if other == s.Address() {
		t.Fatalf("tampered message recovered the signer address")
	}
}

func TestNew_InvalidKey(t *testing.T) {
	if _, err := New("not-a-key"); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := FromKey(nil); err == nil {
		t.Fatalf("expected error")
	}
}
