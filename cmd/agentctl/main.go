package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	"agentconsole/internal/agentform"
	"agentconsole/internal/model"
	"agentconsole/pkg/agentapi"
	"agentconsole/pkg/config"
	"agentconsole/pkg/i18n"
	"agentconsole/pkg/logger"
	"agentconsole/pkg/navigation"
	"agentconsole/pkg/notification"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// errSubmitFailed signals a reported failure; the notification was already printed
var errSubmitFailed = errors.New("submit failed")

type globalOptions struct {
	server  string
	token   string
	timeout time.Duration
	lang    string
	verbose bool
}

type formOptions struct {
	name         string
	ip           string
	image        string
	capacity     int
	nodeCapacity int
	agentType    string
	logLevel     string
	schedulable  bool
	configFile   string
	id           string
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "agentctl",
		Short:         "Create and edit agents from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "error"
			if opts.verbose {
				level = "debug"
			}
			return logger.InitWith(config.LoggerConfig{Level: level, Output: "console"})
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.server, "server", envOr("AGENT_SERVICE_URL", config.DefaultAgentServiceURL), "Agent service base URL")
	flags.StringVar(&opts.token, "token", os.Getenv("AGENT_SERVICE_TOKEN"), "Agent service bearer token")
	flags.DurationVar(&opts.timeout, "timeout", config.DefaultRequestTimeout, "Request timeout")
	flags.StringVar(&opts.lang, "lang", envOr("AGENTCTL_LANG", config.DefaultLanguage), "Message language (en-US, zh-CN)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	root.AddCommand(
		formCmd(opts, model.FormModeCreate, out, errOut),
		formCmd(opts, model.FormModeEdit, out, errOut),
	)
	return root
}

func formCmd(g *globalOptions, mode model.FormMode, out, errOut io.Writer) *cobra.Command {
	opts := &formOptions{}
	cmd := &cobra.Command{
		Use:   mode.String(),
		Short: mode.String() + " an agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForm(cmd, g, opts, mode, out, errOut)
		},
	}
	if mode == model.FormModeEdit {
		cmd.Short = "Edit an existing agent (ip and type cannot change)"
	}

	f := cmd.Flags()
	f.StringVar(&opts.name, "name", "", "Agent name")
	f.StringVar(&opts.ip, "ip", "", "Agent IP address")
	f.StringVar(&opts.image, "image", "", "Image name of deploy agent")
	f.IntVar(&opts.capacity, "capacity", 0, "Capacity of agent (1-100)")
	f.IntVar(&opts.nodeCapacity, "node-capacity", 0, "Capacity of nodes (1-600)")
	f.StringVar(&opts.agentType, "type", "", "Agent type (docker, kubernetes)")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level (info, warning, debug, error, critical)")
	f.BoolVar(&opts.schedulable, "schedulable", true, "Schedulable")
	f.StringVar(&opts.configFile, "config-file", "", "Path of the agent config file")
	f.StringVar(&opts.id, "id", "", "Agent id")
	if mode == model.FormModeEdit {
		_ = cmd.MarkFlagRequired("id")
	}
	return cmd
}

func runForm(cmd *cobra.Command, g *globalOptions, opts *formOptions, mode model.FormMode, out, errOut io.Writer) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithTraceID(ctx, uuid.NewString())

	bundle, err := i18n.NewBundle(config.DefaultLanguage)
	if err != nil {
		return err
	}
	client := agentapi.NewClient(config.AgentServiceConfig{BaseURL: g.server, Token: g.token, Timeout: g.timeout})

	page, err := agentform.NewPage(ctx, uuid.NewString(), agentform.Params{Action: mode.String(), AgentID: opts.id}, agentform.Dependencies{
		Service:   client,
		Reader:    client,
		Navigator: navigation.NewPrinter(out),
		Notifier:  notification.NewWriterNotifier(out),
		Localizer: bundle.Localizer(g.lang),
	})
	if err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return err
	}

	if err := applyFlags(cmd, page, opts); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return err
	}

	fmt.Fprintln(out, page.Title())
	outcome, err := page.Submit(ctx)
	if err != nil {
		var verr *agentform.ValidationError
		if errors.As(err, &verr) {
			for _, fe := range verr.Errors {
				fmt.Fprintf(errOut, "  %s: %s\n", fe.Field, fe.Message)
			}
		} else {
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
		return err
	}

	if !outcome.Succeeded {
		if outcome.Error != "" {
			fmt.Fprintf(errOut, "Error: %s\n", outcome.Error)
		}
		return errSubmitFailed
	}
	if mode == model.FormModeEdit {
		fmt.Fprintf(out, "Agent %s updated\n", outcome.AgentID)
	}
	return nil
}

// applyFlags sets only the fields whose flags were given
func applyFlags(cmd *cobra.Command, page *agentform.Page, opts *formOptions) error {
	changed := cmd.Flags().Changed
	u := agentform.FieldUpdate{}
	if changed("name") {
		u.Name = &opts.name
	}
	if changed("ip") {
		u.IP = &opts.ip
	}
	if changed("image") {
		u.Image = &opts.image
	}
	if changed("capacity") {
		u.Capacity = &opts.capacity
	}
	if changed("node-capacity") {
		u.NodeCapacity = &opts.nodeCapacity
	}
	if changed("type") {
		u.Type = &opts.agentType
	}
	if changed("log-level") {
		u.LogLevel = &opts.logLevel
	}
	if changed("schedulable") {
		u.Schedulable = &opts.schedulable
	}
	if err := page.Apply(u); err != nil {
		return err
	}

	if opts.configFile == "" {
		return nil
	}
	file, err := readConfigFile(opts.configFile)
	if err != nil {
		return err
	}
	return page.SelectConfigFile(file)
}

func readConfigFile(path string) (*model.ConfigFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return &model.ConfigFile{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Content:     content,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
