package tvsystem

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// FileIO reads the channel list from a text file, one channel name per line,
// and writes the generated document to a file on disk.
type FileIO struct {
	channelListPath string
	outputPath      string
	log             *zap.Logger
}

// NewFileIO creates a file based IO.
func NewFileIO(channelListPath, outputPath string, log *zap.Logger) *FileIO {
	return &FileIO{channelListPath: channelListPath, outputPath: outputPath, log: log}
}

// ChannelList reads the channel file. Blank lines are skipped.
func (f *FileIO) ChannelList(_ context.Context) ([]string, error) {
	f.log.Info("reading known channel list", zap.String("file", f.channelListPath))

	file, err := os.Open(f.channelListPath)
	if err != nil {
		return nil, fmt.Errorf("error reading %q, does the file exist and is it readable: %w",
			f.channelListPath, err)
	}
	defer file.Close()

	var channels []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		channel := strings.TrimSpace(scanner.Text())
		if channel != "" {
			channels = append(channels, channel)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %q: %w", f.channelListPath, err)
	}
	return channels, nil
}

// WriteDocument writes the document to the output file.
func (f *FileIO) WriteDocument(data []byte) error {
	f.log.Info("writing XMLTV", zap.String("file", f.outputPath))

	if err := os.WriteFile(f.outputPath, data, 0o644); err != nil {
		return fmt.Errorf("error writing XMLTV to %q, is the path correct and is it writable: %w",
			f.outputPath, err)
	}
	return nil
}

// FixedChannels serves a channel list given on the command line and writes
// the document to a file like FileIO does.
type FixedChannels struct {
	channels []string
	output   *FileIO
}

// NewFixedChannels creates an IO over a fixed channel list.
func NewFixedChannels(channels []string, outputPath string, log *zap.Logger) *FixedChannels {
	return &FixedChannels{
		channels: channels,
		output:   NewFileIO("", outputPath, log),
	}
}

func (f *FixedChannels) ChannelList(_ context.Context) ([]string, error) {
	channels := make([]string, 0, len(f.channels))
	for _, channel := range f.channels {
		channels = append(channels, strings.TrimSpace(channel))
	}
	return channels, nil
}

func (f *FixedChannels) WriteDocument(data []byte) error {
	return f.output.WriteDocument(data)
}
