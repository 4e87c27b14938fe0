package cli

import (
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/announcer/internal/assets"
	"github.com/gyaneshwarpardhi/announcer/internal/audio"
	"github.com/gyaneshwarpardhi/announcer/internal/config"
	"github.com/gyaneshwarpardhi/announcer/internal/notify"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Mute   bool
	Volume float32
	Hold   time.Duration
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play <sound|file>",
		Short: "Play a bundled sound or an audio file",
		Long: `Play a bundled sound by name, or a .wav/.mp3 file by path, through the
same pipeline the server uses. Useful for checking the output device and
custom sound files.

Example:
  announcer play power_rune.wav
  announcer play ~/sounds/rune.mp3 --volume 0.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Mute, "mute", false, "log instead of playing")
	cmd.Flags().Float32Var(&opts.Volume, "volume", 1.0, "output volume, 1.0 = 100%")
	cmd.Flags().DurationVar(&opts.Hold, "hold", 3*time.Second, "how long to keep the device open for playback")

	return cmd
}

func runPlay(opts *PlayOptions, target string, cmd *cobra.Command) error {
	logger := slog.Default()
	action := resolveTarget(target)

	dispatcher := audio.NewDispatcher(opener(opts.Mute, logger), logger)
	router := notify.NewRouter(dispatcher, assets.Sounds, logger)
	router.SetVolume(opts.Volume)
	router.Route(action)

	fmt.Fprintf(cmd.OutOrStdout(), "playing %s\n", action)
	select {
	case <-time.After(opts.Hold):
	case <-dispatcher.Done():
		return fmt.Errorf("audio device unavailable")
	}
	dispatcher.Close()
	<-dispatcher.Done()
	return nil
}

// resolveTarget treats bundled sound names as sounds and anything else as a
// file path.
func resolveTarget(target string) config.NotifyAction {
	if _, err := fs.Stat(assets.Sounds, target); err == nil {
		return config.Sound(target)
	}
	return config.PlayFile(target)
}
