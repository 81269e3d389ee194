package main

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hasbyte1/go-prism/chaindef"
	"github.com/hasbyte1/go-prism/prism"
)

func TestMain(m *testing.M) {
	engine = prism.New(prism.WithKDFIterations(1000))
	os.Exit(m.Run())
}

func runCmd(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRun_Usage(t *testing.T) {
	for _, args := range [][]string{nil, {"bogus"}, {"chains"}, {"chains", "rename"}} {
		if _, _, err := runCmd(t, "", args...); !errors.Is(err, errUsage) {
			t.Errorf("run(%q) err = %v, want errUsage", args, err)
		}
	}
	out, _, err := runCmd(t, "", "help")
	if err != nil || !strings.Contains(out, "prism commands") {
		t.Errorf("help = %q, %v", out, err)
	}
}

func TestText_RoundTrip(t *testing.T) {
	t.Setenv(passwordEnv, "env-secret")

	ct, progress, err := runCmd(t, "", "encrypt", "-mode", "xchacha20-poly1305", "-text", "hello world")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if !strings.Contains(progress, "XChaCha20-Poly1305") {
		t.Errorf("progress = %q", progress)
	}

	pt, _, err := runCmd(t, "", "decrypt", "-q", "-mode", "6", "-text", strings.TrimSpace(ct))
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if pt != "hello world\n" {
		t.Fatalf("decrypt = %q", pt)
	}
}

func TestText_MaskPAN(t *testing.T) {
	ct, _, err := runCmd(t, "", "encrypt", "-q", "-password", "pw", "-mode", "aes-256-gcm", "-mask-pan",
		"-text", "Card: 4111 1111 1111 1111")
	if err != nil {
		t.Fatal(err)
	}
	pt, _, err := runCmd(t, "", "decrypt", "-q", "-password", "pw", "-mode", "aes-256-gcm", "-text", strings.TrimSpace(ct))
	if err != nil {
		t.Fatal(err)
	}
	if pt != "Card: **** **** **** 1111\n" {
		t.Fatalf("decrypt = %q", pt)
	}
}

func TestText_WrongPassword(t *testing.T) {
	ct, _, err := runCmd(t, "", "encrypt", "-q", "-password", "right", "-text", "secret")
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = runCmd(t, "", "decrypt", "-q", "-password", "wrong", "-text", strings.TrimSpace(ct))
	if !errors.Is(err, prism.ErrIntegrityViolation) {
		t.Fatalf("err = %v, want ErrIntegrityViolation", err)
	}
}

func TestMissingPassword(t *testing.T) {
	t.Setenv(passwordEnv, "")
	if _, _, err := runCmd(t, "", "encrypt", "-text", "x"); err == nil || !strings.Contains(err.Error(), passwordEnv) {
		t.Fatalf("err = %v", err)
	}
}

func TestWithSecret_WipesPassword(t *testing.T) {
	fs := flag.NewFlagSet("encrypt", flag.ContinueOnError)
	sel := addSelectorFlags(fs)
	if err := fs.Parse([]string{"-password", "hunter2", "-mode", "aes-256-gcm"}); err != nil {
		t.Fatal(err)
	}
	selection, err := sel.selection()
	if err != nil {
		t.Fatal(err)
	}

	var seen []byte
	var ct string
	err = sel.withSecret(func(pw []byte) error {
		seen = pw
		if string(pw) != "hunter2" {
			t.Errorf("password = %q", pw)
		}
		var encErr error
		ct, encErr = engine.EncryptText("payload", pw, selection, false, nil)
		return encErr
	})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(seen, make([]byte, len("hunter2"))) {
		t.Fatalf("password buffer not wiped: %q", seen)
	}

	pt, err := engine.DecryptText(ct, []byte("hunter2"), selection, nil)
	if err != nil || pt != "payload" {
		t.Fatalf("DecryptText = %q, %v", pt, err)
	}
}

func TestFiles_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.bin")
	if err := os.WriteFile(a, []byte("alpha"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte{0, 1, 2, 0xff}, 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCmd(t, "", "encrypt", "-q", "-password", "pw", "-mode", "aes-256-cbc-hmac-sha256", a, b); err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	for _, p := range []string{a, b} {
		if _, err := os.Stat(p + suffix); err != nil {
			t.Fatalf("missing %s: %v", p+suffix, err)
		}
		if err := os.Remove(p); err != nil {
			t.Fatal(err)
		}
	}

	if _, _, err := runCmd(t, "", "decrypt", "-q", "-password", "pw", "-mode", "aes-256-cbc-hmac-sha256", a+suffix, b+suffix); err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if got, _ := os.ReadFile(a); string(got) != "alpha" {
		t.Errorf("a = %q", got)
	}
	if got, _ := os.ReadFile(b); !bytes.Equal(got, []byte{0, 1, 2, 0xff}) {
		t.Errorf("b = %v", got)
	}
}

func TestFiles_Errors(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain.txt")
	if err := os.WriteFile(plain, []byte("data"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCmd(t, "", "decrypt", "-q", "-password", "pw", plain); err == nil {
		t.Error("decrypt accepted a file without the suffix")
	}
	if _, _, err := runCmd(t, "", "encrypt", "-q", "-password", "pw", "-mask-pan", plain); err == nil {
		t.Error("encrypt accepted --mask-pan with files")
	}
	if _, _, err := runCmd(t, "", "encrypt", "-q", "-password", "pw"); err == nil {
		t.Error("encrypt accepted no input")
	}

	if _, _, err := runCmd(t, "", "encrypt", "-q", "-password", "pw", "-mode", "1", plain); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCmd(t, "", "encrypt", "-q", "-password", "pw", "-mode", "1", plain); !errors.Is(err, os.ErrExist) {
		t.Errorf("second encrypt err = %v, want ErrExist", err)
	}
	if _, _, err := runCmd(t, "", "encrypt", "-q", "-force", "-password", "pw", "-mode", "1", plain); err != nil {
		t.Errorf("encrypt --force: %v", err)
	}

	_, _, err := runCmd(t, "", "decrypt", "-q", "-force", "-password", "nope", "-mode", "1", plain+suffix)
	var itemErr *prism.ItemError
	if !errors.As(err, &itemErr) || itemErr.Name != plain+suffix {
		t.Fatalf("err = %v, want ItemError for %s", err, plain+suffix)
	}
	if !errors.Is(err, prism.ErrIntegrityViolation) {
		t.Fatalf("err = %v, want ErrIntegrityViolation", err)
	}
}

func TestRedact(t *testing.T) {
	out, _, err := runCmd(t, "pay 4111-1111-1111-1111 now", "redact")
	if err != nil {
		t.Fatal(err)
	}
	if out != "pay **** **** **** 1111 now" {
		t.Errorf("stdin redact = %q", out)
	}

	out, _, err = runCmd(t, "", "redact", "-text", "5555555555554444")
	if err != nil {
		t.Fatal(err)
	}
	if out != "**** **** **** 4444\n" {
		t.Errorf("flag redact = %q", out)
	}
}

func TestModes(t *testing.T) {
	out, _, err := runCmd(t, "", "modes")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"aes-256-gcm-siv", "xchacha20-poly1305", "unified-prism", "COMPOSITE"} {
		if !strings.Contains(out, want) {
			t.Errorf("modes output missing %q:\n%s", want, out)
		}
	}
}

func TestChains(t *testing.T) {
	lib := filepath.Join(t.TempDir(), "chains.yaml")

	out, _, err := runCmd(t, "", "chains", "add", "-chains", lib, "-name", "archive",
		"-desc", "cold storage", "-modes", "aes-256-gcm-siv, xchacha20-poly1305,8")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.HasPrefix(out, "Added chain id:") {
		t.Errorf("add output = %q", out)
	}
	if _, _, err := runCmd(t, "", "chains", "add", "-chains", lib, "-name", "ARCHIVE", "-modes", "1"); !errors.Is(err, chaindef.ErrDuplicate) {
		t.Errorf("duplicate add err = %v", err)
	}
	if _, _, err := runCmd(t, "", "chains", "add", "-chains", lib, "-name", "empty", "-modes", ""); err == nil {
		t.Error("add accepted an empty chain")
	}

	out, _, err = runCmd(t, "", "chains", "list", "-chains", lib)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "aes-256-gcm-siv > xchacha20-poly1305 > aes-256-ocb") {
		t.Errorf("list output:\n%s", out)
	}

	ct, progress, err := runCmd(t, "", "encrypt", "-chains", lib, "-chain", "archive", "-password", "pw", "-text", "payload")
	if err != nil {
		t.Fatalf("encrypt with chain: %v", err)
	}
	if strings.Count(progress, "encrypt ") != 3 {
		t.Errorf("progress = %q, want three layers", progress)
	}
	pt, _, err := runCmd(t, "", "decrypt", "-q", "-chains", lib, "-chain", "Archive", "-password", "pw", "-text", strings.TrimSpace(ct))
	if err != nil || pt != "payload\n" {
		t.Fatalf("decrypt with chain = %q, %v", pt, err)
	}

	if _, _, err := runCmd(t, "", "encrypt", "-chains", lib, "-chain", "missing", "-password", "pw", "-text", "x"); !errors.Is(err, chaindef.ErrNotFound) {
		t.Errorf("missing chain err = %v", err)
	}

	if _, _, err := runCmd(t, "", "chains", "remove", "-chains", lib, "-name", "archive"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, _, err := runCmd(t, "", "chains", "remove", "-chains", lib, "-name", "archive"); !errors.Is(err, chaindef.ErrNotFound) {
		t.Errorf("second remove err = %v", err)
	}
}
