package tts

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Flags that keep common players headless and quiet.
var playerArgs = map[string][]string{
	"mpv":    {"--no-video", "--really-quiet"},
	"ffplay": {"-nodisp", "-autoexit", "-loglevel", "quiet"},
}

// Player hands synthesized audio to an external player command. At most
// one playback is in flight; starting a new one stops the previous
// process first.
type Player struct {
	command string
	args    []string
	dir     string

	mu      sync.Mutex
	current *exec.Cmd
}

// NewPlayer creates a player writing audio files under dir. An empty
// command autodetects a player on PATH; Play reports an error if none
// was found.
func NewPlayer(command, dir string) *Player {
	p := &Player{dir: dir}
	if command == "" {
		command = detectPlayer()
	}
	parts := strings.Fields(command)
	if len(parts) > 0 {
		p.command = parts[0]
		p.args = parts[1:]
		if len(p.args) == 0 {
			p.args = playerArgs[filepath.Base(p.command)]
		}
	}
	return p
}

// Available reports whether a player command is configured.
func (p *Player) Available() bool {
	return p.command != ""
}

// Play writes the audio to the speech directory and starts the player.
// The file is removed once playback ends.
func (p *Player) Play(audio []byte) error {
	if p.command == "" {
		return fmt.Errorf("no audio player found (set tts.player in the config)")
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create speech dir: %w", err)
	}
	path := filepath.Join(p.dir, fmt.Sprintf("speech-%d.mp3", time.Now().UnixNano()))
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	p.Stop()

	cmd := exec.Command(p.command, append(append([]string{}, p.args...), path)...)
	if err := cmd.Start(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to start player %s: %w", p.command, err)
	}

	p.mu.Lock()
	p.current = cmd
	p.mu.Unlock()

	go func() {
		cmd.Wait()
		os.Remove(path)
		p.mu.Lock()
		if p.current == cmd {
			p.current = nil
		}
		p.mu.Unlock()
	}()

	return nil
}

// Stop kills the in-flight playback, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil && p.current.Process != nil {
		p.current.Process.Kill()
		p.current = nil
	}
}

func detectPlayer() string {
	for _, candidate := range []string{"afplay", "mpv", "ffplay", "mpg123", "paplay"} {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
