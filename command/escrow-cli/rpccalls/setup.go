// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpccalls - JSON RPC client for escrowd
package rpccalls

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"
	"time"
)

// Client - to hold RPC connections streams
type Client struct {
	sync.Mutex
	conn      net.Conn
	client    *rpc.Client
	testnet   bool
	verbose   bool
	handle    io.Writer // if verbose is set output items here
	lastNonce uint64
}

// NewClient - create a RPC connection to an escrowd
func NewClient(testnet bool, connect string, verbose bool, handle io.Writer) (*Client, error) {

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
	}

	conn, err := tls.Dial("tcp", connect, tlsConfig)
	if err != nil {
		return nil, err
	}

	return newClient(conn, testnet, verbose, handle), nil
}

func newClient(conn net.Conn, testnet bool, verbose bool, handle io.Writer) *Client {
	return &Client{
		conn:    conn,
		client:  jsonrpc.NewClient(conn),
		testnet: testnet,
		verbose: verbose,
		handle:  handle,
	}
}

// Close - shutdown the escrowd connection
func (c *Client) Close() {
	c.client.Close()
	c.conn.Close()
}

// nonces are taken from the clock so separate runs of the program
// keep increasing, a fast caller still gets distinct values
func (c *Client) nonce() uint64 {
	c.Lock()
	defer c.Unlock()

	n := uint64(time.Now().UnixNano())
	if n <= c.lastNonce {
		n = c.lastNonce + 1
	}
	c.lastNonce = n
	return n
}

// perform one call showing the request and reply when verbose
func (c *Client) call(method string, arguments interface{}, reply interface{}) error {
	c.printJson(method+" request", arguments)

	if err := c.client.Call(method, arguments, reply); err != nil {
		return err
	}

	c.printJson(method+" reply", reply)
	return nil
}

func (c *Client) printJson(title string, message interface{}) {

	if !c.verbose {
		return
	}

	b, err := json.MarshalIndent(message, "", "  ")
	if nil != err {
		fmt.Fprintf(c.handle, "%s: marshal error: %s\n", title, err)
		return
	}

	fmt.Fprintf(c.handle, "%s:\n%s\n", title, b)
}
