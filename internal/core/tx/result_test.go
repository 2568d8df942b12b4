package tx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultCategories(t *testing.T) {
	assert.True(t, TesSUCCESS.IsSuccess())
	assert.True(t, TesSUCCESS.IsApplied())

	assert.True(t, TecSLIPPAGE_EXCEEDED.IsTec())
	assert.True(t, TecSLIPPAGE_EXCEEDED.IsApplied())
	assert.False(t, TecSLIPPAGE_EXCEEDED.IsSuccess())

	assert.True(t, TerNO_ACCOUNT.IsTer())
	assert.False(t, TerNO_ACCOUNT.IsApplied())

	assert.True(t, TefPAST_SEQ.IsTef())
	assert.True(t, TemINVALID_AMOUNT.IsTem())
}

func TestResultStrings(t *testing.T) {
	assert.Equal(t, "tesSUCCESS", TesSUCCESS.String())
	assert.Equal(t, "tecINSUFFICIENT_LIQUIDITY", TecINSUFFICIENT_LIQUIDITY.String())
	assert.Equal(t, "temBAD_FEE", TemBAD_FEE.String())
	assert.Equal(t, "unknownResult", Result(9999).String())
	assert.NotEmpty(t, TecMATH_OVERFLOW.Message())
}

func TestParseValidationError(t *testing.T) {
	assert.Equal(t, TesSUCCESS, parseValidationError(nil))
	assert.Equal(t, TemINVALID_AMOUNT, parseValidationError(errors.New("temINVALID_AMOUNT: Amount must be positive")))
	assert.Equal(t, TemINVALID_INPUT, parseValidationError(errors.New("temINVALID_INPUT: bad Name")))
	assert.Equal(t, TemINVALID, parseValidationError(errors.New("temINVALID: generic")))
	assert.Equal(t, TemINVALID, parseValidationError(errors.New("something unprefixed")))
	assert.Equal(t, TemINVALID, parseValidationError(errors.New("no colon at all")))
}

// temINVALID prefixes the names of several other codes; the lookup
// must resolve on the full token, not the shortest prefix.
func TestParseValidationErrorToken(t *testing.T) {
	for i := 0; i < 64; i++ {
		assert.Equal(t, TemINVALID_AMOUNT, parseValidationError(errors.New("temINVALID_AMOUNT: Amount must be positive")))
		assert.Equal(t, TemINVALID_INPUT, parseValidationError(errors.New("temINVALID_INPUT: invalid Asset: bad length")))
	}
}
