package manager

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/hoppxi/lightroom/pkg/operation"
)

// Controller is the running window as seen by the IPC socket and the D-Bus
// service.
type Controller interface {
	Level() float64
	Output() string
	SetLevel(level float64) error
	Show()
}

type AppManager struct {
	mu       sync.Mutex
	ctrl     Controller
	listener net.Listener
	bus      *dbus.Conn
	wg       sync.WaitGroup
}

var Manage = &AppManager{}

var ErrAlreadyRunning = errors.New("lightroom is already running")

func getSocketPath() string {
	var baseDir string
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		baseDir = runtimeDir
	} else {
		baseDir = os.TempDir()
	}

	socketDir := filepath.Join(baseDir, "lightroom")
	if err := os.MkdirAll(socketDir, 0o755); err != nil {
		return filepath.Join(os.TempDir(), "lightroom-socket.sock")
	}
	return filepath.Join(socketDir, "socket.sock")
}

// StartIPCServer listens on the lightroom socket and serves ctrl until
// StopAll. It refuses to replace a socket another instance still answers on.
func (m *AppManager) StartIPCServer(ctrl Controller) error {
	if conn, err := m.ConnectIPC(); err == nil {
		conn.Close()
		return ErrAlreadyRunning
	}

	socketPath := getSocketPath()
	_ = os.Remove(socketPath)

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("error listening on socket: %w", err)
	}

	m.mu.Lock()
	m.ctrl = ctrl
	m.listener = listener
	m.mu.Unlock()

	log.Printf("IPC Server listening on: %s", socketPath)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			conn, err := listener.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return
				}
				continue
			}
			go m.handleConnection(conn)
		}
	}()
	return nil
}

func (m *AppManager) handleConnection(conn net.Conn) {
	defer conn.Close()

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		return
	}

	m.mu.Lock()
	ctrl := m.ctrl
	m.mu.Unlock()

	_, _ = conn.Write([]byte(handleCommand(ctrl, strings.TrimSpace(string(buf[:n])))))
}

func handleCommand(ctrl Controller, line string) string {
	command, arg, _ := strings.Cut(line, " ")

	switch command {
	case "STATUS":
		return "OK: running on " + ctrl.Output()

	case "GET":
		return "OK: " + operation.FormatBrightness(ctrl.Level())

	case "SET":
		level, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
		if err != nil || math.IsNaN(level) || math.IsInf(level, 0) {
			return "ERR: invalid level " + strconv.Quote(arg)
		}
		if err := ctrl.SetLevel(level); err != nil {
			return "ERR: " + err.Error()
		}
		return "OK: " + operation.FormatBrightness(ctrl.Level())

	case "SHOW":
		ctrl.Show()
		return "OK: shown"

	default:
		return "ERR: unknown command"
	}
}

// StopAll closes the socket and the bus connection.
func (m *AppManager) StopAll() {
	m.mu.Lock()
	listener := m.listener
	bus := m.bus
	m.listener = nil
	m.bus = nil
	m.mu.Unlock()

	if listener != nil {
		_ = listener.Close()
		_ = os.Remove(getSocketPath())
	}
	if bus != nil {
		_ = bus.Close()
	}

	m.wg.Wait()
}

func (m *AppManager) ConnectIPC() (net.Conn, error) {
	return net.DialTimeout("unix", getSocketPath(), 500*time.Millisecond)
}

func (m *AppManager) SendIPCCommand(cmd string) (string, error) {
	conn, err := m.ConnectIPC()
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(cmd)); err != nil {
		return "", err
	}

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}

	reply := string(buf[:n])
	if msg, ok := strings.CutPrefix(reply, "ERR: "); ok {
		return "", errors.New(msg)
	}
	return strings.TrimPrefix(reply, "OK: "), nil
}
