package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/KristinSchanks/healthcare-qms/internal/auth"
	"github.com/KristinSchanks/healthcare-qms/internal/config"
)

func newHashPasswordCmd() *cobra.Command {
	var (
		username string
		role     string
		cost     int
	)

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print a users entry for config.yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return writeUserEntry(cmd.OutOrStdout(), username, role, password, cost)
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&role, "role", "viewer", "role label")
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("empty password on stdin")
	}
	return password, nil
}

func writeUserEntry(w io.Writer, username, role, password string, cost int) error {
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(map[string][]config.UserEntry{
		"users": {{Username: username, PasswordHash: hash, Role: role}},
	})
	if err != nil {
		return fmt.Errorf("encode users entry: %w", err)
	}
	_, err = w.Write(out)
	return err
}
