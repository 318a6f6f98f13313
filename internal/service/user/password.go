package user

import (
    "crypto/rand"
    "crypto/subtle"
    "encoding/base64"
    "fmt"
    "strings"

    "golang.org/x/crypto/argon2"
)

// Argon2id parameters. Changing these invalidates stored hashes, so the
// salt and hash are stored together in a single encoded string.
const (
    argonTime    = 1
    argonMemory  = 64 * 1024
    argonThreads = 4
    argonKeyLen  = 32
    saltLen      = 16
)

// hashPassword generates a salted Argon2id hash, encoded as "salt$hash".
func hashPassword(password string) (string, error) {
    salt := make([]byte, saltLen)
    if _, err := rand.Read(salt); err != nil {
        return "", err
    }
    hash := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
    return base64.StdEncoding.EncodeToString(salt) + "$" + base64.StdEncoding.EncodeToString(hash), nil
}

// verifyPassword compares a candidate password against an encoded hash in
// constant time.
func verifyPassword(password, encoded string) (bool, error) {
    saltPart, hashPart, ok := strings.Cut(encoded, "$")
    if !ok {
        return false, fmt.Errorf("malformed password hash")
    }
    salt, err := base64.StdEncoding.DecodeString(saltPart)
    if err != nil {
        return false, fmt.Errorf("decode salt: %w", err)
    }
    want, err := base64.StdEncoding.DecodeString(hashPart)
    if err != nil {
        return false, fmt.Errorf("decode hash: %w", err)
    }
    got := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
    return subtle.ConstantTimeCompare(want, got) == 1, nil
}
