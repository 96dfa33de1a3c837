package main

import (
	"fmt"
	"os"

	"github.com/example/go-vops/internal/audio"
	"github.com/example/go-vops/internal/config"
	"github.com/spf13/cobra"
)

func newImportWAVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-wav FILE NAME",
		Short: "Load a WAV file into a float32 variable",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			a, info, err := audio.DecodeWAV(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			if _, err := s.ws.Set(args[1], a); err != nil {
				return err
			}

			if err := s.save(); err != nil {
				return err
			}

			if s.cfg.Output.Format == config.FormatJSON {
				return s.out.json(info)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s = %v (%d Hz, %d-bit, %d channels)\n",
				args[1], a, info.SampleRate, info.BitDepth, info.Channels)

			return err
		},
	}
}

func newExportWAVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-wav NAME FILE",
		Short: "Write a variable as a PCM WAV file",
		Long: `Write a variable as a PCM WAV file. A vector becomes a mono file and a
[frames, channels] matrix becomes a multi-channel file. Samples are clamped
to [-1, 1]. The format comes from --audio-sample-rate and --audio-bit-depth.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}

			v, err := s.variable(args[0])
			if err != nil {
				return err
			}

			data, err := audio.EncodeWAV(v.Value(), s.cfg.Audio.SampleRate, s.cfg.Audio.BitDepth)
			if err != nil {
				return err
			}

			// #nosec G306 -- Output audio is a user artifact, not a secret.
			return os.WriteFile(args[1], data, 0o644)
		},
	}
}
