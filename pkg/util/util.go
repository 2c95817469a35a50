package util

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Map applies f to every element of s and returns the results in a new slice.
func Map[A any, B any](s []A, f func(A, uint64) B) []B {
	out := make([]B, len(s))
	for i, v := range s {
		out[i] = f(v, uint64(i))
	}
	return out
}

// Filter returns the elements of s for which keep returns true.
func Filter[A any](s []A, keep func(A) bool) []A {
	out := make([]A, 0)
	for _, v := range s {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Reduce folds s into a single value starting from initial.
func Reduce[A any, B any](s []A, f func(B, A) B, initial B) B {
	acc := initial
	for _, v := range s {
		acc = f(acc, v)
	}
	return acc
}

// StringToECDSAPrivateKey parses a hex secp256k1 private key, with or without 0x prefix.
func StringToECDSAPrivateKey(pk string) (*ecdsa.PrivateKey, error) {
	pk = strings.TrimPrefix(strings.TrimSpace(pk), "0x")
	key, err := crypto.HexToECDSA(pk)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return key, nil
}

// DeriveAddressFromECDSAPrivateKey returns the Ethereum address for a private key.
func DeriveAddressFromECDSAPrivateKey(pk *ecdsa.PrivateKey) (common.Address, error) {
	if pk == nil {
		return common.Address{}, fmt.Errorf("private key is nil")
	}
	return crypto.PubkeyToAddress(pk.PublicKey), nil
}

// DeriveAddressFromECDSAPrivateKeyString parses a hex private key and returns its address.
func DeriveAddressFromECDSAPrivateKeyString(pk string) (common.Address, error) {
	key, err := StringToECDSAPrivateKey(pk)
	if err != nil {
		return common.Address{}, err
	}
	return DeriveAddressFromECDSAPrivateKey(key)
}
