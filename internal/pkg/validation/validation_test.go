package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `json:"username" validate:"required,min=3,max=50,username"`
	Email    string `json:"email" validate:"required,email"`
	Year     *int   `json:"published_year" validate:"omitempty,gte=1000,notfutureyear"`
}

func TestStruct_Valid(t *testing.T) {
	year := 1999
	assert.NoError(t, Struct(signup{Username: "reader_1", Email: "reader@example.com", Year: &year}))
}

func TestStruct_CollectsFieldErrors(t *testing.T) {
	year := 3000
	err := Struct(signup{Username: "a!", Email: "nope", Year: &year})
	require.Error(t, err)

	var verrs Errors
	require.ErrorAs(t, err, &verrs)

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "must be at least 3 characters", fields["username"])
	assert.Equal(t, "must be a valid email", fields["email"])
	assert.Equal(t, "cannot be in the future", fields["published_year"])
}
