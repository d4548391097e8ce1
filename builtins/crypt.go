// Package builtins holds FlagNative functions the engine's CALL opcode
// dispatches into directly — the Go-side half of the object ABI's
// NativeFn call path (spec §6 "External Interfaces").
package builtins

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/amoghe/go-crypt"
	sergeycrypt "github.com/sergeymakinen/go-crypt"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/argonlang/argon/internal/objectabi"
)

const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
)

// Register installs the crypt()/argon2() natives into reg under the
// names callers CALL against.
func Register(reg *Registry) {
	reg.Add(objectabi.NewNativeFunc("crypt", 2, 0, builtinCrypt))
	reg.Add(objectabi.NewNativeFunc("argon2", 2, objectabi.FlagHaveDefaults, builtinArgon2))
	reg.Add(objectabi.NewNativeFunc("argon2_verify", 2, 0, builtinArgon2Verify))
}

// builtinCrypt mirrors the teacher's algorithm-detection dispatch
// (salt prefix selects DES/MD5/SHA/bcrypt) but replaces its cgo
// crypt(3) binding with pure-Go implementations so the engine doesn't
// need a C toolchain to hash a password.
func builtinCrypt(fiber objectabi.Object, args []objectabi.Object, kwargs *objectabi.Map) (objectabi.Object, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("%w: crypt() takes 1 or 2 arguments", objectabi.ErrUnsupportedOp)
	}
	password, ok := args[0].(objectabi.Str)
	if !ok {
		return nil, fmt.Errorf("%w: crypt() password must be str", objectabi.ErrUnsupportedOp)
	}

	salt := "$6$" + randomSalt(16) // SHA-512 crypt by default
	if len(args) == 2 {
		s, ok := args[1].(objectabi.Str)
		if !ok {
			return nil, fmt.Errorf("%w: crypt() salt must be str", objectabi.ErrUnsupportedOp)
		}
		salt = string(s)
	}

	switch {
	case strings.HasPrefix(salt, "$2a$"), strings.HasPrefix(salt, "$2b$"), strings.HasPrefix(salt, "$2y$"):
		cost := bcrypt.DefaultCost
		if len(salt) >= 6 {
			if c, err := strconv.Atoi(salt[4:6]); err == nil {
				cost = c
			}
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", objectabi.ErrUnsupportedOp, err)
		}
		// The library always writes "$2a$"; keep the variant the salt asked for.
		return objectabi.Str(salt[:4] + string(hashed[4:])), nil
	case strings.HasPrefix(salt, "$1$"), strings.HasPrefix(salt, "$5$"), strings.HasPrefix(salt, "$6$"):
		hashed, err := sergeycrypt.Crypt(string(password), salt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", objectabi.ErrUnsupportedOp, err)
		}
		return objectabi.Str(hashed), nil
	default:
		// Traditional two-character DES salt.
		hashed, err := crypt.Crypt(string(password), salt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", objectabi.ErrUnsupportedOp, err)
		}
		return objectabi.Str(hashed), nil
	}
}

// builtinArgon2 hashes password with Argon2id, encoding parameters into
// the PHC-style string the teacher's builtinArgon2 also produces, so
// callers migrating scripts from the teacher's convention don't need to
// reparse a different hash format.
func builtinArgon2(fiber objectabi.Object, args []objectabi.Object, kwargs *objectabi.Map) (objectabi.Object, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, fmt.Errorf("%w: argon2() takes 1 or 2 arguments", objectabi.ErrUnsupportedOp)
	}
	password, ok := args[0].(objectabi.Str)
	if !ok {
		return nil, fmt.Errorf("%w: argon2() password must be str", objectabi.ErrUnsupportedOp)
	}

	var salt []byte
	if len(args) == 2 {
		s, ok := args[1].(objectabi.Str)
		if !ok {
			return nil, fmt.Errorf("%w: argon2() salt must be str", objectabi.ErrUnsupportedOp)
		}
		salt = []byte(s)
	} else {
		salt = make([]byte, 16)
		if _, err := rand.Read(salt); err != nil {
			return nil, fmt.Errorf("%w: %v", objectabi.ErrOS, err)
		}
	}
	if len(salt) < 8 {
		return nil, fmt.Errorf("%w: argon2() salt must be at least 8 bytes", objectabi.ErrValue)
	}

	h := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	encoded := fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argon2Memory, argon2Time, argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(h),
	)
	return objectabi.Str(encoded), nil
}

func builtinArgon2Verify(fiber objectabi.Object, args []objectabi.Object, kwargs *objectabi.Map) (objectabi.Object, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%w: argon2_verify() takes 2 arguments", objectabi.ErrUnsupportedOp)
	}
	password, ok := args[0].(objectabi.Str)
	if !ok {
		return nil, fmt.Errorf("%w: argon2_verify() password must be str", objectabi.ErrUnsupportedOp)
	}
	encoded, ok := args[1].(objectabi.Str)
	if !ok {
		return nil, fmt.Errorf("%w: argon2_verify() hash must be str", objectabi.ErrUnsupportedOp)
	}

	m, t, p, salt, want, err := parseArgon2Hash(string(encoded))
	if err != nil {
		return objectabi.False, nil
	}
	got := argon2.IDKey([]byte(password), salt, t, m, p, uint32(len(want)))

	match := len(got) == len(want)
	if match {
		for i := range got {
			if got[i] != want[i] {
				match = false
				break
			}
		}
	}
	return objectabi.BoolOf(match), nil
}

func parseArgon2Hash(encoded string) (m, t uint32, p uint8, salt, hash []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, fmt.Errorf("invalid argon2 hash")
	}
	params := strings.Split(parts[3], ",")
	if len(params) != 3 {
		return 0, 0, 0, nil, nil, fmt.Errorf("invalid argon2 params")
	}
	m64, err := strconv.ParseUint(strings.TrimPrefix(params[0], "m="), 10, 32)
	if err != nil {
		return 0, 0, 0, nil, nil, err
	}
	t64, err := strconv.ParseUint(strings.TrimPrefix(params[1], "t="), 10, 32)
	if err != nil {
		return 0, 0, 0, nil, nil, err
	}
	p64, err := strconv.ParseUint(strings.TrimPrefix(params[2], "p="), 10, 8)
	if err != nil {
		return 0, 0, 0, nil, nil, err
	}
	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, err
	}
	hash, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, err
	}
	return uint32(m64), uint32(t64), uint8(p64), salt, hash, nil
}

func randomSalt(n int) string {
	const alphabet = "./ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	buf := make([]byte, n)
	rnd := make([]byte, n)
	_, _ = rand.Read(rnd)
	for i := range buf {
		buf[i] = alphabet[int(rnd[i])%len(alphabet)]
	}
	return string(buf)
}
