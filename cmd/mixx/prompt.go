package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mixxbar/mixx/pkg/ui"
)

var errCancelled = errors.New("cancelled")

// fillForm prompts for the account form kind unless complete reports that
// flags already supplied every value. Without a terminal it fails with
// missing, which names the flags to pass.
func fillForm(cmd *cobra.Command, kind ui.FormKind, v *ui.FormValues, complete bool, missing string) error {
	if complete {
		return nil
	}
	if !isTerminal(cmd.InOrStdin()) || !isTerminal(cmd.OutOrStdout()) {
		return errors.New(missing)
	}
	err := ui.NewAccountForm(kind, v).Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return errCancelled
	}
	if err != nil {
		return fmt.Errorf("%s form: %w", strings.ToLower(kind.String()), err)
	}
	return nil
}

// readSecret reads one line from r, for --password-stdin.
func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	secret := strings.TrimRight(line, "\r\n")
	if secret == "" {
		return "", errors.New("no password on stdin")
	}
	return secret, nil
}
