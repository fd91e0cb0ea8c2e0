// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/fault"
)

// test encrypt and decrypt one string with various passwords
func TestEncryptDecrypt(t *testing.T) {
	plainText := "The Quick Brown Fox Jumps Over The Lazy Dog"
	passwords := []string{"test", "123", "444", "m,erRGhtk%$33ug62sd al/fajfb.adv"}

	for _, password := range passwords {
		salt, key, err := hashPassword(password)
		if nil != err {
			t.Fatalf("hash error: %s", err)
		}

		encrypted, err := encryptData(plainText, key)
		if nil != err {
			t.Fatalf("encrypt error: %s", err)
		}

		key2, err := generateKey(password, salt)
		if nil != err {
			t.Fatalf("generateKey error: %s", err)
		}

		decrypted, err := decryptData(encrypted, key2)
		if nil != err {
			t.Fatalf("decrypt error: %s", err)
		}
		assert.Equal(t, plainText, decrypted, "password: %q", password)

		// a second encryption never repeats
		again, err := encryptData(plainText, key)
		assert.Nil(t, err, "encrypt again")
		assert.NotEqual(t, encrypted, again, "duplicate ciphertext")
	}
}

func TestDecryptWrongKey(t *testing.T) {
	_, key, err := hashPassword("right")
	if nil != err {
		t.Fatalf("hash error: %s", err)
	}
	_, other, err := hashPassword("wrong")
	if nil != err {
		t.Fatalf("hash error: %s", err)
	}

	encrypted, err := encryptData("This is some text for testing 1234567890", key)
	if nil != err {
		t.Fatalf("encrypt error: %s", err)
	}

	_, err = decryptData(encrypted, other)
	assert.Equal(t, fault.CryptoFailed, err, "wrong key")

	_, err = decryptData("", key)
	assert.Equal(t, fault.CryptoFailed, err, "empty")

	_, err = decryptData("abcdef", key)
	assert.Equal(t, fault.CryptoFailed, err, "too short")

	_, err = decryptData("not hex", key)
	assert.NotNil(t, err, "not hex")
}

func TestEncryptSizeLimits(t *testing.T) {
	_, key, err := hashPassword("size")
	if nil != err {
		t.Fatalf("hash error: %s", err)
	}

	_, err = encryptData("short", key)
	assert.Equal(t, fault.CryptoFailed, err, "too small")

	_, err = encryptData(string(make([]byte, 16384)), key)
	assert.Equal(t, fault.CryptoFailed, err, "too large")
}

func TestSalt(t *testing.T) {
	salt, err := MakeSalt()
	if nil != err {
		t.Fatalf("salt error: %s", err)
	}

	text, err := salt.MarshalText()
	assert.Nil(t, err, "marshal")
	assert.Equal(t, salt.String(), string(text), "text form")

	var s Salt
	err = s.UnmarshalText(text)
	assert.Nil(t, err, "unmarshal")
	assert.Equal(t, *salt, s, "round trip")

	err = s.UnmarshalText([]byte("0102"))
	assert.Equal(t, fault.InvalidKeyLength, err, "short salt")

	err = s.UnmarshalText([]byte("xyz"))
	assert.NotNil(t, err, "not hex")
}
