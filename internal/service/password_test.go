package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_AndCheck_OK(t *testing.T) {
	t.Parallel()

	h, err := hashPassword("Abcdef1!")
	require.NoError(t, err)
	require.NotEmpty(t, h)
	require.NotEqual(t, "Abcdef1!", h)

	require.True(t, checkPassword(h, "Abcdef1!"))
	require.False(t, checkPassword(h, "Abcdef1?"))
}

func TestHashPassword_Empty(t *testing.T) {
	t.Parallel()

	_, err := hashPassword("")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrEmptyPassword)
}

func TestHashPassword_SaltedHashesDiffer(t *testing.T) {
	t.Parallel()

	first, err := hashPassword("Abcdef1!")
	require.NoError(t, err)
	second, err := hashPassword("Abcdef1!")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, checkPassword(first, "Abcdef1!"))
	require.True(t, checkPassword(second, "Abcdef1!"))
}

func TestCheckPassword_MalformedHashOrEmptyArgs(t *testing.T) {
	t.Parallel()

	require.False(t, checkPassword("", "Abcdef1!"))
	require.False(t, checkPassword("not-a-bcrypt-hash", "Abcdef1!"))

	h, err := hashPassword("Abcdef1!")
	require.NoError(t, err)
	require.False(t, checkPassword(h, ""))
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		pw      string
		wantErr error
	}{
		{name: "ok", pw: "Abcdef1!", wantErr: nil},
		{name: "empty", pw: "", wantErr: ErrEmptyPassword},
		{name: "too short", pw: "Ab1!", wantErr: ErrWeakPassword},
		{name: "no upper", pw: "abcdef1!", wantErr: ErrWeakPassword},
		{name: "no lower", pw: "ABCDEF1!", wantErr: ErrWeakPassword},
		{name: "no digit", pw: "Abcdefg!", wantErr: ErrWeakPassword},
		{name: "no special", pw: "Abcdefg1", wantErr: ErrWeakPassword},
		{name: "unicode ok", pw: "Пароль1!x", wantErr: nil},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := validatePassword(tc.pw)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}
