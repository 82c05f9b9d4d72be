// Package cmd holds the command line surface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziggogoepg/exporter/internal/config"
	"github.com/ziggogoepg/exporter/internal/database"
	"github.com/ziggogoepg/exporter/internal/dvb"
	"github.com/ziggogoepg/exporter/internal/grabber"
	"github.com/ziggogoepg/exporter/internal/migrations"
	"github.com/ziggogoepg/exporter/internal/sources/ziggogo"
	"github.com/ziggogoepg/exporter/internal/tvsystem"
	"github.com/ziggogoepg/exporter/internal/xmltv"
)

const cacheFileName = "ziggogoepg_cache.sqlite3"

var flags struct {
	configuration string
	scanDays      int
	fileMode      bool

	tvhHost     string
	tvhPort     int
	tvhUsername string
	tvhPassword string
	tvhSocket   string

	channelFile      string
	channels         []string
	writeChannelList bool
	xmltvFile        string

	timezone         string
	databaseLocation string
	generateOnly     bool
	debugSQL         bool
}

var rootCmd = &cobra.Command{
	Use:          "ziggogoepg",
	Short:        "EPG grabber for the guide hosted on ziggogo.tv",
	SilenceUsage: true,
	RunE:         run,
}

// Execute runs the command line. Called by main.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	f := rootCmd.Flags()

	f.StringVarP(&flags.configuration, "configuration", "s", "ziggo-nl", "configuration to use")
	f.IntVarP(&flags.scanDays, "scan-days", "n", 14, "number of days to grab")
	f.BoolVarP(&flags.fileMode, "file-mode", "f", false, "use file mode instead of TVHeadend mode")

	f.StringVar(&flags.tvhHost, "tvh-host", "localhost", "hostname of TVHeadend, used for getting the channel list")
	f.IntVar(&flags.tvhPort, "tvh-port", 9981, "portnumber of TVHeadend, used for getting the channel list")
	f.StringVar(&flags.tvhUsername, "tvh-username", "", "username of TVHeadend")
	f.StringVar(&flags.tvhPassword, "tvh-password", "", "password of TVHeadend")
	f.StringVar(&flags.tvhSocket, "tvh-socket", "/home/hts/.hts/tvheadend/epggrab/xmltv.sock",
		"path to the xmltv socket of TVHeadend, used to write the XMLTV data to")

	f.StringVar(&flags.channelFile, "channel-file", "channels.txt", "file containing the channel list (file mode)")
	f.StringArrayVarP(&flags.channels, "channel", "c", nil, "name of channel to grab, can be given multiple times (file mode)")
	f.BoolVar(&flags.writeChannelList, "write-channel-list", false,
		"write all known channels to the file given by --channel-file, overwriting any existing file")
	f.StringVar(&flags.xmltvFile, "xmltv-file", "ziggogo.xml", "xmltv output file (file mode)")

	f.StringVar(&flags.timezone, "timezone", "", "override timezone to use in the XMLTV file")
	f.StringVar(&flags.databaseLocation, "database-location", ".", "path where the cache database will be created")
	f.BoolVar(&flags.generateOnly, "generate-only", false, "generate XMLTV from an existing cache database")
	f.BoolVar(&flags.debugSQL, "debug-sql", false, "log all SQL statements")

	rootCmd.MarkFlagsMutuallyExclusive("channel-file", "channel")
	rootCmd.MarkFlagsMutuallyExclusive("write-channel-list", "xmltv-file")
}

func run(cmd *cobra.Command, _ []string) error {
	logCfg := zap.NewDevelopmentConfig()
	log, err := logCfg.Build()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting ZiggoGo EPG")
	ctx := cmd.Context()

	cfg, err := config.Load(flags.configuration + ".yml")
	if err != nil {
		return err
	}
	if flags.timezone != "" {
		cfg.Timezone = flags.timezone
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	io := selectIO(log)

	dbPath := filepath.Join(flags.databaseLocation, cacheFileName)
	db, err := database.NewDB(dbPath, flags.debugSQL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := migrations.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrate cache database: %w", err)
	}

	client := ziggogo.NewClient(cfg.URLs, cfg.GuideRateLimit(), log)

	if flags.writeChannelList {
		if err := writeChannelList(ctx, client, log); err != nil {
			return err
		}
		log.Info("done")
		return nil
	}

	if !flags.generateOnly {
		g := grabber.New(db, client, io, loc, flags.scanDays, log)
		if err := g.Run(ctx); err != nil {
			return err
		}

		// Reclaim the space freed by the purges.
		if _, err := db.ExecContext(ctx, "VACUUM"); err != nil {
			return fmt.Errorf("vacuum cache database: %w", err)
		}
	}

	writer := xmltv.NewWriter(db, dvb.NewTranslator(log), log)
	data, err := writer.Generate(ctx)
	if err != nil {
		return err
	}
	if err := io.WriteDocument(data); err != nil {
		return err
	}

	log.Info("done")
	return nil
}

// selectIO picks the TV system IO for the run. TVHeadend is the default,
// file mode switches to disk files, and explicit --channel flags replace the
// channel file.
func selectIO(log *zap.Logger) tvsystem.IO {
	if !flags.fileMode {
		return tvsystem.NewTVHeadend(flags.tvhHost, flags.tvhPort, flags.tvhUsername, flags.tvhPassword,
			flags.tvhSocket, log)
	}
	if len(flags.channels) > 0 {
		return tvsystem.NewFixedChannels(flags.channels, flags.xmltvFile, log)
	}
	return tvsystem.NewFileIO(flags.channelFile, flags.xmltvFile, log)
}

// writeChannelList dumps the full guide catalog to the channel file so a user
// can trim it down by hand.
func writeChannelList(ctx context.Context, client *ziggogo.Client, log *zap.Logger) error {
	log.Info("writing channel list", zap.String("file", flags.channelFile))

	catalog, err := client.ChannelList(ctx)
	if err != nil {
		return err
	}

	var sb strings.Builder
	for _, channel := range catalog {
		if channel.Name == "" {
			continue
		}
		sb.WriteString(channel.Name)
		sb.WriteByte('\n')
	}

	if err := os.WriteFile(flags.channelFile, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("error writing channel list to %q, is the path correct and is it writable: %w",
			flags.channelFile, err)
	}
	return nil
}
