package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatedForm struct {
	CNPJ  string `validate:"omitempty,cnpj"`
	Plate string `validate:"required,plate"`
}

func TestNewValidator(t *testing.T) {
	v := NewValidator()

	require.NoError(t, v.Struct(validatedForm{CNPJ: "11.222.333/0001-81", Plate: "BRA1B23"}))
	require.NoError(t, v.Struct(validatedForm{Plate: "bra1b23"}))

	err := v.Struct(validatedForm{CNPJ: "11.111.111/1111-11", Plate: "ABC1234"})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Equal(t, "cnpj", fields["CNPJ"])
	assert.Equal(t, "plate", fields["Plate"])
}

func TestFieldErrorsUseJSONNames(t *testing.T) {
	type input struct {
		ClientCNPJ string `json:"clientCnpj" validate:"omitempty,cnpj"`
		Name       string `json:"name,omitempty" validate:"required"`
	}

	err := NewValidator().Struct(input{ClientCNPJ: "123"})
	require.Error(t, err)

	assert.Equal(t, map[string]string{"clientCnpj": "cnpj", "name": "required"}, FieldErrors(err))
}

func TestFieldErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(assert.AnError))
}
