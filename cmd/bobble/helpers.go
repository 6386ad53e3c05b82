package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kexlie/bobble/internal/ipc"
	"github.com/kexlie/bobble/internal/message"
	"github.com/kexlie/bobble/internal/secret"
	"github.com/kexlie/bobble/internal/wire"
)

// addClientFlags adds the flags every daemon-talking sub-command shares.
func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().String("passphrase", "", "passphrase the daemon was started with")
	addConfigFlag(cmd)
}

// request performs one IPC exchange with the daemon. ERROR responses come
// back as Go errors.
func request(v *viper.Viper, msg *message.Message) (*message.Message, error) {
	if !ipc.IsRunning() {
		return nil, fmt.Errorf("no bobble daemon on %s (start one with \"bobble serve\")", ipc.SocketPath())
	}

	var key *[secret.KeySize]byte
	if pass := v.GetString("passphrase"); pass != "" {
		var err error
		key, err = secret.DeriveKey(pass)
		if err != nil {
			return nil, fmt.Errorf("key derivation: %w", err)
		}
	}

	conn, err := ipc.Dial()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	wc := wire.New(conn, key)
	if err := wc.WriteMsg(msg); err != nil {
		return nil, fmt.Errorf("send: %w", err)
	}
	resp, err := wc.ReadMsg()
	if err != nil {
		return nil, fmt.Errorf("receive: %w", err)
	}
	if resp.Type == message.TypeError {
		return nil, fmt.Errorf("%s", resp.Error)
	}
	return resp, nil
}
