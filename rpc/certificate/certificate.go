// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package certificate - TLS configuration for the listeners
package certificate

import (
	"crypto/tls"
	"io/ioutil"

	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/util"
	"github.com/bitmark-inc/logger"
)

// Get - verify a PEM encoded certificate and key
// and return the TLS configuration and certificate fingerprint
func Get(log *logger.L, name, certificate, key string) (*tls.Config, [32]byte, error) {
	var fin [32]byte

	keyPair, err := tls.X509KeyPair([]byte(certificate), []byte(key))
	if nil != err {
		log.Errorf("%s failed to load keypair: %v", name, err)
		return nil, fin, err
	}

	tlsConfiguration := &tls.Config{
		Certificates: []tls.Certificate{
			keyPair,
		},
	}

	fin = Fingerprint(keyPair.Certificate[0])

	return tlsConfiguration, fin, nil
}

// GetFromFiles - read the certificate and key files then verify them
func GetFromFiles(log *logger.L, name, certificateFileName, keyFileName string) (*tls.Config, [32]byte, error) {
	var fin [32]byte

	if !util.EnsureFileExists(certificateFileName) {
		log.Errorf("%s certificate: %q does not exist", name, certificateFileName)
		return nil, fin, fault.MissingParameters
	}
	if !util.EnsureFileExists(keyFileName) {
		log.Errorf("%s private key: %q does not exist", name, keyFileName)
		return nil, fin, fault.MissingParameters
	}

	certificate, err := ioutil.ReadFile(certificateFileName)
	if nil != err {
		return nil, fin, err
	}
	key, err := ioutil.ReadFile(keyFileName)
	if nil != err {
		return nil, fin, err
	}
	return Get(log, name, string(certificate), string(key))
}

// Fingerprint - compute the fingerprint of a certificate
//
// FreeBSD: openssl x509 -outform DER -in escrowd-local-rpc.crt | sha3sum -a 256
func Fingerprint(certificate []byte) [32]byte {
	return sha3.Sum256(certificate)
}
