package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chzyer/readline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleywu/routesim/internal/audit"
	"github.com/wesleywu/routesim/internal/routing"
)

type testSession struct {
	*Session
	out   *bytes.Buffer
	audit *bytes.Buffer
}

func newTestSession() *testSession {
	out := &bytes.Buffer{}
	auditBuf := &bytes.Buffer{}
	s := NewSession(routing.NewTable(), Options{
		Out:             out,
		Audit:           audit.NewWriter(auditBuf),
		LoadConcurrency: 4,
	})
	return &testSession{Session: s, out: out, audit: auditBuf}
}

// run executes a command and returns what it printed
func (ts *testSession) run(line string) string {
	ts.out.Reset()
	ts.Execute(line)
	return ts.out.String()
}

func TestEndToEndScenario(t *testing.T) {
	s := newTestSession()

	assert.Equal(t, "Route added.\n", s.run("add 192.168.1.0/24 192.168.1.1 10"))
	assert.Equal(t, "Route added.\n", s.run("add 0.0.0.0/0 10.0.0.254 100"))

	assert.Equal(t,
		"packet from 10.0.0.1/32 to 192.168.1.50/32 [ICMP]\nForwarding via gateway 192.168.1.1/32\n",
		s.run("send 10.0.0.1 192.168.1.50 ICMP"))
	assert.Equal(t,
		"packet from 10.0.0.1/32 to 8.8.8.8/32 [UDP]\nForwarding via gateway 10.0.0.254/32\n",
		s.run("send 10.0.0.1 8.8.8.8 UDP"))

	assert.Equal(t, "Route removed.\n", s.run("del 0.0.0.0/0"))
	assert.Equal(t,
		"packet from 10.0.0.1/32 to 8.8.8.8/32 [TCP]\nPacket dropped (no matching route).\n",
		s.run("send 10.0.0.1 8.8.8.8 TCP"))

	expectedAudit := "ADD 192.168.1.0/24 via 192.168.1.1 metric 10\n" +
		"ADD 0.0.0.0/0 via 10.0.0.254 metric 100\n" +
		"FWD packet from 10.0.0.1/32 to 192.168.1.50/32 [ICMP] via 192.168.1.1/32\n" +
		"FWD packet from 10.0.0.1/32 to 8.8.8.8/32 [UDP] via 10.0.0.254/32\n" +
		"DEL 0.0.0.0/0\n" +
		"DROP packet from 10.0.0.1/32 to 8.8.8.8/32 [TCP]\n"
	assert.Equal(t, expectedAudit, s.audit.String())
}

func TestAddInvalidInputLeavesTableUntouched(t *testing.T) {
	s := newTestSession()
	s.run("add 10.0.0.0/8 10.0.0.1 1")

	tests := []struct {
		line     string
		expected string
	}{
		{"add 999.1.1.1 10.0.0.1 1", "Error: "},
		{"add 1.2.3.4/33 10.0.0.1 1", "Error: "},
		{"add 10.1.0.0/16 10.0.0 1", "Error: "},
		{"add 10.1.0.0/16 10.0.0.1 ten", "Usage: add <network> <gateway> <metric>"},
		{"add 10.1.0.0/16 10.0.0.1", "Usage: add <network> <gateway> <metric>"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out := s.run(tt.line)
			assert.True(t, strings.HasPrefix(out, tt.expected), "got %q", out)
			assert.Equal(t, 1, s.Table().Len())
		})
	}

	assert.Equal(t, "ADD 10.0.0.0/8 via 10.0.0.1 metric 1\n", s.audit.String())
}

func TestDeleteNotFound(t *testing.T) {
	s := newTestSession()
	s.run("add 10.0.0.0/24 10.0.0.1 1")

	assert.Equal(t, "Route not found.\n", s.run("del 10.0.0.0/16"))
	assert.Equal(t, 1, s.Table().Len())
	assert.Equal(t, "Usage: del <network>\n", s.run("del"))
	assert.True(t, strings.HasPrefix(s.run("del 10.0.0/24"), "Error: "))

	// Every parsed delete command is audited, matched or not.
	assert.Equal(t, "ADD 10.0.0.0/24 via 10.0.0.1 metric 1\nDEL 10.0.0.0/16\n", s.audit.String())
}

func TestSendUsageAndErrors(t *testing.T) {
	s := newTestSession()

	assert.Equal(t, "Usage: send <source> <destination> <protocol>\n", s.run("send 10.0.0.1 10.0.0.2"))
	assert.True(t, strings.HasPrefix(s.run("send 10.0.0.1 10.0.0.256 ICMP"), "Error: "))
	assert.Empty(t, s.audit.String())
}

func TestShow(t *testing.T) {
	s := newTestSession()
	assert.Equal(t, "Routing table is empty.\n", s.run("show"))

	s.run("add 0.0.0.0/0 10.0.0.254 100")
	s.run("add 192.168.1.0/24 192.168.1.1 10")
	s.run("add 172.16.0.0/12 172.16.0.1 10")

	out := s.run("show")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Current routing table:", lines[0])
	assert.Contains(t, lines[1], "NETWORK")
	assert.Contains(t, lines[2], "192.168.1.0/24")
	assert.Contains(t, lines[3], "172.16.0.0/12")
	assert.Contains(t, lines[4], "0.0.0.0/0")
	assert.Contains(t, lines[4], "10.0.0.254/32")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(good, []byte("# lab\n10.0.0.0/8 10.0.0.1 5\n0.0.0.0/0 10.0.0.254 100\n"), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("10.0.0.0/8 10.0.0.1 5\n10.0.0.0/40 10.0.0.1 5\n"), 0644))

	s := newTestSession()

	out := s.run("load " + bad)
	assert.True(t, strings.HasPrefix(out, "Error: "), "got %q", out)
	assert.Contains(t, out, "line 2")
	assert.Equal(t, 0, s.Table().Len())

	assert.Equal(t, "Loaded 2 routes.\n", s.run("load "+good))
	assert.Equal(t, 2, s.Table().Len())
	assert.Equal(t, "ADD 10.0.0.0/8 via 10.0.0.1 metric 5\nADD 0.0.0.0/0 via 10.0.0.254 metric 100\n", s.audit.String())

	assert.Equal(t, "Usage: load <file>\n", s.run("load"))
}

func TestStats(t *testing.T) {
	s := newTestSession()
	s.run("add 10.0.0.0/8 10.0.0.1 5")
	s.run("add 10.0.0.0/8 10.0.0.2 5")
	s.run("send 1.1.1.1 10.1.1.1 ICMP")
	s.run("send 1.1.1.1 11.1.1.1 ICMP")
	s.run("del 11.0.0.0/8")

	expected := "Routes: 2 (1 networks)\n" +
		"Added: 2, removed: 0, delete misses: 1\n" +
		"Forwarded: 1, dropped: 1\n"
	assert.Equal(t, expected, s.run("stats"))
}

func TestUnknownAndControlCommands(t *testing.T) {
	s := newTestSession()

	assert.Equal(t, "Unknown command. Type 'help' for a list of commands.\n", s.run("route add"))
	assert.Equal(t, "", s.run("   "))
	assert.Contains(t, s.run("help"), "add <network> <gateway> <metric>")

	assert.True(t, s.Execute("exit"))
	assert.True(t, s.Execute("quit"))
	assert.False(t, s.Execute("show"))
}

type fakeReader struct {
	lines []string
	err   error
}

func (f *fakeReader) Readline() (string, error) {
	if len(f.lines) == 0 {
		if f.err != nil {
			return "", f.err
		}
		return "", io.EOF
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line, nil
}

func TestRunStopsOnExit(t *testing.T) {
	s := newTestSession()
	rl := &fakeReader{lines: []string{"add 10.0.0.0/8 10.0.0.1 1", "exit", "add 11.0.0.0/8 10.0.0.1 1"}}

	require.NoError(t, s.Run(context.Background(), rl))
	assert.Equal(t, 1, s.Table().Len())
	assert.True(t, strings.HasPrefix(s.out.String(), "=== IP Router Simulator ==="))
	assert.Len(t, rl.lines, 1)
}

func TestRunStopsOnEOFAndInterrupt(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.Run(context.Background(), &fakeReader{lines: []string{"show"}}))

	s = newTestSession()
	require.NoError(t, s.Run(context.Background(), &fakeReader{err: readline.ErrInterrupt}))
}

func TestRunReturnsReadErrors(t *testing.T) {
	s := newTestSession()
	err := s.Run(context.Background(), &fakeReader{err: os.ErrClosed})
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestRunStopsOnCancel(t *testing.T) {
	s := newTestSession()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rl := &fakeReader{lines: []string{"add 10.0.0.0/8 10.0.0.1 1"}}
	require.NoError(t, s.Run(ctx, rl))
	assert.Equal(t, 0, s.Table().Len())
}
