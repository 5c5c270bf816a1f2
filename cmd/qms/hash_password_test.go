package main

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"github.com/KristinSchanks/healthcare-qms/internal/config"
)

func TestHashPasswordCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader("s3cret\n"))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"hash-password", "--username", "alice", "--role", "auditor", "--cost", "4"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	var doc struct {
		Users []config.UserEntry `yaml:"users"`
	}
	if err := yaml.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("output is not yaml: %v\n%s", err, out.String())
	}
	if len(doc.Users) != 1 {
		t.Fatalf("users = %+v", doc.Users)
	}

	u := doc.Users[0]
	if u.Username != "alice" || u.Role != "auditor" {
		t.Errorf("entry = %+v", u)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret")); err != nil {
		t.Errorf("hash does not match password: %v", err)
	}
}

func TestHashPasswordRequiresInput(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"Missing Username", "s3cret\n", []string{"hash-password"}},
		{"Empty Password", "\n", []string{"hash-password", "--username", "alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetIn(strings.NewReader(tt.stdin))
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)

			if err := cmd.Execute(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
