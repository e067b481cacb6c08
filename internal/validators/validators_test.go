package validators_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agendusalao/salon-api/internal/validators"
)

func TestIsEmailValid(t *testing.T) {
	valid := []string{"a@b.co", "maria.silva@salao.com.br", "  padded@mail.com  "}
	for _, e := range valid {
		assert.True(t, validators.IsEmailValid(e), "email %q", e)
	}

	invalid := []string{"", "no-at.com", "two@@at.com", "spaces in@mail.com", "noext@domain"}
	for _, e := range invalid {
		assert.False(t, validators.IsEmailValid(e), "email %q", e)
	}
}

func TestIsPhoneValid(t *testing.T) {
	valid := []string{"+5511999998888", "11999998888", "(11) 99999-8888", "+1 415 555 2671"}
	for _, p := range valid {
		assert.True(t, validators.IsPhoneValid(p), "phone %q", p)
	}

	invalid := []string{"", "abc", "0123", "+", "999@888"}
	for _, p := range invalid {
		assert.False(t, validators.IsPhoneValid(p), "phone %q", p)
	}
}
