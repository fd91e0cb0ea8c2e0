// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package publish_test

import (
	"io/ioutil"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	zmq "github.com/pebbe/zmq4"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/escrowd/background"
	"github.com/bitmark-inc/escrowd/fault"
	"github.com/bitmark-inc/escrowd/messagebus"
	"github.com/bitmark-inc/escrowd/publish"
	"github.com/bitmark-inc/escrowd/zmqutil"
	"github.com/bitmark-inc/logger"
)

var testingDirName string

func TestMain(m *testing.M) {
	dir, err := ioutil.TempDir("", "publish-test")
	if nil != err {
		panic(err)
	}
	testingDirName = dir

	_ = logger.Initialise(logger.Configuration{
		Directory: dir,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})

	rc := m.Run()

	logger.Finalise()
	os.RemoveAll(dir)
	os.Exit(rc)
}

func freePort(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if nil != err {
		t.Fatalf("listen error: %s", err)
	}
	defer l.Close()
	return strconv.Itoa(l.Addr().(*net.TCPAddr).Port)
}

func keyFiles(t *testing.T, name string) *publish.Configuration {
	public := filepath.Join(testingDirName, name+".public")
	private := filepath.Join(testingDirName, name+".private")
	if err := zmqutil.MakeKeyPair(public, private); nil != err {
		t.Fatalf("make key pair error: %s", err)
	}
	return &publish.Configuration{
		PublicKey:  public,
		PrivateKey: private,
	}
}

func TestNewErrors(t *testing.T) {
	bus := messagebus.New()
	defer bus.Release()

	_, err := publish.New(logger.New("publish"), &publish.Configuration{}, bus)
	assert.Equal(t, fault.MissingParameters, err, "no broadcast")

	_, err = publish.New(logger.New("publish"), &publish.Configuration{
		Broadcast:  []string{"127.0.0.1:" + freePort(t)},
		PrivateKey: filepath.Join(testingDirName, "absent.private"),
		PublicKey:  filepath.Join(testingDirName, "absent.public"),
	}, bus)
	assert.NotNil(t, err, "missing key files")

	configuration := keyFiles(t, "bad-address")
	configuration.Broadcast = []string{"not-an-address"}
	_, err = publish.New(logger.New("publish"), configuration, bus)
	assert.Equal(t, fault.InvalidIpAddress, err, "bad address")
}

func TestPublish(t *testing.T) {
	bus := messagebus.New()
	defer bus.Release()

	port := freePort(t)
	configuration := keyFiles(t, "server")
	configuration.Broadcast = []string{"127.0.0.1:" + port}

	p, err := publish.New(logger.New("publish"), configuration, bus)
	if nil != err {
		t.Fatalf("new publisher error: %s", err)
	}

	bg := background.Start(background.Processes{p}, nil)
	defer bg.Stop()

	clientPublic, clientPrivate, err := zmq.NewCurveKeypair()
	assert.Nil(t, err, "client keys")

	sub, err := zmq.NewSocket(zmq.SUB)
	if nil != err {
		t.Fatalf("socket error: %s", err)
	}
	defer sub.Close()

	sub.SetCurveServerkey(zmq.Z85encode(string(p.PublicKey())))
	sub.SetCurvePublickey(clientPublic)
	sub.SetCurveSecretkey(clientPrivate)
	sub.SetSubscribe("listing")
	sub.SetRcvtimeo(100 * time.Millisecond)
	err = sub.Connect("tcp://127.0.0.1:" + port)
	assert.Nil(t, err, "connect")

	packed := []byte{0x01, 0x02, 0x03}

	// a subscriber only sees messages sent after it has joined
	var received [][]byte
	for i := 0; i < 50 && nil == received; i += 1 {
		bus.Send("ignored", []byte{0xff})
		bus.Send("listing", packed)
		frames, err := sub.RecvMessageBytes(0)
		if nil == err {
			received = frames
		}
	}

	if assert.Equal(t, 2, len(received), "frame count") {
		assert.Equal(t, "listing", string(received[0]), "topic")
		assert.Equal(t, packed, received[1], "event")
	}
}
