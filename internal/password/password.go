package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	timeCost   uint32 = 2
	memoryCost uint32 = 48 * 1024
	threads    uint8  = 2
	keyLen     uint32 = 32
	saltLen           = 16
)

var errMalformedDigest = errors.New("malformed password digest")

// Hash derives an argon2id digest with a fresh random salt. The salt and cost
// parameters are embedded in the encoding, so two hashes of the same password
// never match.
func Hash(plaintext string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), salt, timeCost, memoryCost, threads, keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		memoryCost,
		timeCost,
		threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify re-derives the digest and compares in constant time. A digest that
// cannot be decoded verifies false rather than failing.
func Verify(plaintext, digest string) bool {
	params, salt, expected, err := decodeDigest(digest)
	if err != nil {
		return false
	}
	actual := argon2.IDKey([]byte(plaintext), salt, params.time, params.memory, params.threads, uint32(len(expected)))
	return subtle.ConstantTimeCompare(actual, expected) == 1
}

type digestParams struct {
	memory  uint32
	time    uint32
	threads uint8
}

func decodeDigest(digest string) (digestParams, []byte, []byte, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return digestParams{}, nil, nil, errMalformedDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return digestParams{}, nil, nil, errMalformedDigest
	}

	params, err := parseCostParams(parts[3])
	if err != nil {
		return digestParams{}, nil, nil, err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return digestParams{}, nil, nil, errMalformedDigest
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return digestParams{}, nil, nil, errMalformedDigest
	}

	return params, salt, key, nil
}

func parseCostParams(segment string) (digestParams, error) {
	fields := strings.Split(segment, ",")
	if len(fields) != 3 {
		return digestParams{}, errMalformedDigest
	}

	mem, err := parseCost(fields[0], "m=")
	if err != nil {
		return digestParams{}, err
	}
	t, err := parseCost(fields[1], "t=")
	if err != nil {
		return digestParams{}, err
	}
	p, err := parseCost(fields[2], "p=")
	if err != nil || p > 255 {
		return digestParams{}, errMalformedDigest
	}

	return digestParams{memory: mem, time: t, threads: uint8(p)}, nil
}

func parseCost(field, prefix string) (uint32, error) {
	if !strings.HasPrefix(field, prefix) {
		return 0, errMalformedDigest
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(field, prefix), 10, 32)
	if err != nil {
		return 0, errMalformedDigest
	}
	return uint32(n), nil
}
