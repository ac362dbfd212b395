package forms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSignUp() SignUpForm {
	return SignUpForm{
		Name:    "David Ma",
		Email:   "USER@Example.com",
		Phone:   "2203333399",
		ZipCode: "11373",
		Car:     "True",
	}
}

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	var fe FieldErrors
	require.True(t, errors.As(err, &fe), "expected FieldErrors, got %v", err)
	return fe
}

func TestSignUpNormalizes(t *testing.T) {
	data, err := validSignUp().Clean()
	require.NoError(t, err)

	assert.Equal(t, "david ma", data.Name)
	assert.Equal(t, "user@example.com", data.Email)
	assert.Equal(t, "2203333399", data.Phone)
	assert.Equal(t, "11373", data.ZipCode)
	assert.True(t, data.Car)
}

func TestSignUpInvalidEmail(t *testing.T) {
	f := validSignUp()
	f.Email = "not-an-email"

	_, err := f.Clean()
	assert.Equal(t, MsgInvalidEmail, fieldErrors(t, err)["email"])
}

func TestSignUpEmailNeedsBothAtAndDot(t *testing.T) {
	for _, email := range []string{"user@example", "user.example.com"} {
		f := validSignUp()
		f.Email = email
		_, err := f.Clean()
		assert.Equal(t, MsgInvalidEmail, fieldErrors(t, err)["email"], email)
	}
}

func TestSignUpZipMustBeNumeric(t *testing.T) {
	f := validSignUp()
	f.ZipCode = "11A73"

	_, err := f.Clean()
	assert.Equal(t, MsgZipNotNumeric, fieldErrors(t, err)["zipCode"])
}

func TestSignUpCarFlag(t *testing.T) {
	cases := []struct {
		in   interface{}
		want bool
	}{
		{"True", true},
		{true, true},
		{"no", false},
		{"False", false},
		{"true", false},
		{false, false},
		{nil, false},
		{1, false},
	}
	for _, tc := range cases {
		f := validSignUp()
		f.Car = tc.in
		data, err := f.Clean()
		require.NoError(t, err)
		assert.Equal(t, tc.want, data.Car, "%v", tc.in)
	}
}

func TestSignUpPhoneOptional(t *testing.T) {
	f := validSignUp()
	f.Phone = ""

	data, err := f.Clean()
	require.NoError(t, err)
	assert.Empty(t, data.Phone)
}

func TestSignUpReportsEveryFailingField(t *testing.T) {
	_, err := SignUpForm{Email: "nope", ZipCode: "1-2"}.Clean()

	fe := fieldErrors(t, err)
	assert.Equal(t, FieldErrors{
		"name":    MsgRequired,
		"email":   MsgInvalidEmail,
		"zipCode": MsgZipNotNumeric,
	}, fe)
	assert.Contains(t, fe.Error(), "email: must use a valid email")
}

func validMechanic() MechanicForm {
	return MechanicForm{
		FirstName:   "Ana",
		LastName:    "Lopez",
		Email:       "ana@example.com",
		IsCertified: "True",
		WorkType:    "FT",
	}
}

func TestMechanicFormValid(t *testing.T) {
	f := validMechanic()
	f.Certification = " ASE Master "

	data, err := f.Clean()
	require.NoError(t, err)
	assert.True(t, data.IsCertified)
	assert.Equal(t, "ASE Master", data.Certification)
	assert.Equal(t, "FT", data.WorkType)
	assert.Equal(t, "Full Time", WorkTypeLabel(data.WorkType))
}

func TestMechanicFormOptionalFields(t *testing.T) {
	f := validMechanic()
	f.IsCertified = "False"
	f.WorkType = "PT"

	data, err := f.Clean()
	require.NoError(t, err)
	assert.False(t, data.IsCertified)
	assert.Empty(t, data.Phone)
	assert.Empty(t, data.Certification)
	assert.Equal(t, "Part Time", WorkTypeLabel(data.WorkType))
}

func TestMechanicFormPresenceAndChoices(t *testing.T) {
	_, err := MechanicForm{IsCertified: "maybe", WorkType: "contract"}.Clean()

	assert.Equal(t, FieldErrors{
		"first_name":   MsgRequired,
		"last_name":    MsgRequired,
		"email":        MsgRequired,
		"is_certified": MsgInvalidChoice,
		"work_type":    MsgInvalidChoice,
	}, fieldErrors(t, err))
}
