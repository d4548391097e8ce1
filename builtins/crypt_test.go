package builtins

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/argonlang/argon/internal/objectabi"
)

func TestBuiltinCryptDefaultsToSHA512(t *testing.T) {
	out, err := builtinCrypt(nil, []objectabi.Object{objectabi.Str("hunter2")}, nil)
	assert.NoError(t, err)
	hashed, ok := out.(objectabi.Str)
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(string(hashed), "$6$"))
}

func TestBuiltinCryptBcryptSalt(t *testing.T) {
	out, err := builtinCrypt(nil, []objectabi.Object{
		objectabi.Str("hunter2"), objectabi.Str("$2b$10$abcdefghijklmnopqrstuv"),
	}, nil)
	assert.NoError(t, err)
	hashed, ok := out.(objectabi.Str)
	assert.True(t, ok)
	assert.True(t, strings.HasPrefix(string(hashed), "$2b$"))
}

func TestBuiltinCryptRejectsWrongArgCount(t *testing.T) {
	_, err := builtinCrypt(nil, []objectabi.Object{}, nil)
	assert.Error(t, err)
	_, err = builtinCrypt(nil, []objectabi.Object{
		objectabi.Str("a"), objectabi.Str("b"), objectabi.Str("c"),
	}, nil)
	assert.Error(t, err)
}

func TestBuiltinCryptRejectsNonStrPassword(t *testing.T) {
	_, err := builtinCrypt(nil, []objectabi.Object{objectabi.Int(1)}, nil)
	assert.Error(t, err)
}

func TestArgon2RoundTripWithGeneratedSalt(t *testing.T) {
	hashed, err := builtinArgon2(nil, []objectabi.Object{objectabi.Str("correct horse")}, nil)
	assert.NoError(t, err)
	encoded := hashed.(objectabi.Str)
	assert.True(t, strings.HasPrefix(string(encoded), "$argon2id$v=19$"))

	ok, err := builtinArgon2Verify(nil, []objectabi.Object{objectabi.Str("correct horse"), encoded}, nil)
	assert.NoError(t, err)
	assert.Equal(t, objectabi.True, ok)

	ok, err = builtinArgon2Verify(nil, []objectabi.Object{objectabi.Str("wrong password"), encoded}, nil)
	assert.NoError(t, err)
	assert.Equal(t, objectabi.False, ok)
}

func TestArgon2WithExplicitSalt(t *testing.T) {
	hashed, err := builtinArgon2(nil, []objectabi.Object{
		objectabi.Str("battery staple"), objectabi.Str("0123456789abcdef"),
	}, nil)
	assert.NoError(t, err)
	encoded := hashed.(objectabi.Str)

	m, tt, p, salt, hash, err := parseArgon2Hash(string(encoded))
	assert.NoError(t, err)
	assert.Equal(t, uint32(argon2Memory), m)
	assert.Equal(t, uint32(argon2Time), tt)
	assert.Equal(t, uint8(argon2Threads), p)
	assert.Equal(t, "0123456789abcdef", string(salt))
	assert.Len(t, hash, argon2KeyLen)
}

func TestArgon2RejectsShortSalt(t *testing.T) {
	_, err := builtinArgon2(nil, []objectabi.Object{
		objectabi.Str("pw"), objectabi.Str("short"),
	}, nil)
	assert.Error(t, err)
}

func TestArgon2VerifyRejectsMalformedHash(t *testing.T) {
	ok, err := builtinArgon2Verify(nil, []objectabi.Object{
		objectabi.Str("pw"), objectabi.Str("not-a-valid-hash"),
	}, nil)
	assert.NoError(t, err)
	assert.Equal(t, objectabi.False, ok)
}

func TestParseArgon2HashRejectsWrongPartCount(t *testing.T) {
	_, _, _, _, _, err := parseArgon2Hash("$argon2id$v=19$m=1,t=1,p=1$onlysalt")
	assert.Error(t, err)
}
