package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesByKind(t *testing.T) {
	err := NotFound(42)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, "[ERR_201_NOT_FOUND] memory not found: 42", err.Error())
}

func TestWrappedChain(t *testing.T) {
	cause := stderrors.New("disk I/O error")
	err := fmt.Errorf("create: %w", Persistence("insert memory", cause))

	assert.True(t, IsPersistence(err))
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, KindPersistence, KindOf(err))
	assert.Equal(t, CodePersistence, CodeOf(err))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(stderrors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}

func TestValidationCode(t *testing.T) {
	err := ValidationCode(CodeQueryEmpty, stderrors.New("search query cannot be empty"))
	assert.True(t, IsValidation(err))
	assert.Equal(t, "[ERR_402_QUERY_EMPTY] search query cannot be empty", err.Error())
}

func TestCodesFollowCategoryRanges(t *testing.T) {
	tests := []struct {
		code   string
		prefix string
	}{
		{CodeNotFound, "ERR_2"},
		{CodeInvalidInput, "ERR_4"},
		{CodeQueryEmpty, "ERR_4"},
		{CodeUnsupported, "ERR_4"},
		{CodeTooLarge, "ERR_4"},
		{CodeCanceled, "ERR_4"},
		{CodePersistence, "ERR_5"},
		{CodeProcessing, "ERR_5"},
	}
	seen := map[string]bool{}
	for _, tt := range tests {
		assert.Truef(t, strings.HasPrefix(tt.code, tt.prefix), "%s not in %sxx", tt.code, tt.prefix)
		num := tt.code[:7]
		assert.Falsef(t, seen[num], "duplicate number %s", num)
		seen[num] = true
	}
}
