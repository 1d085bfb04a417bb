package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go.pact.im/x/builder/codegen"
)

// errNoTypes is returned when no record types are selected for generation.
var errNoTypes = errors.New("no types selected: use --type or the " + codegen.DeriveDirective + " directive")

func newCommand() *cobra.Command {
	var (
		configPath string
		flagConfig config
		typeNames  []string
	)

	cmd := &cobra.Command{
		Use:   "builder [flags] [dir]",
		Short: "Generate builders for Go struct types",
		Long: "builder generates a builder type with chainable setters and a Build method\n" +
			"for every struct type in the package that is marked with the\n" +
			codegen.DeriveDirective + " directive or listed with --type.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var c config
			if configPath != "" {
				if err := readConfig(configPath, &c); err != nil {
					return err
				}
			}

			flags := cmd.Flags()
			if len(args) > 0 {
				c.Dir = args[0]
			}
			if flags.Changed("output") {
				c.Output = flagConfig.Output
			}
			if flags.Changed("package") {
				if err := c.Package.UnmarshalText([]byte(flagConfig.Package)); err != nil {
					return err
				}
			}
			if flags.Changed("tags") {
				c.Tags = flagConfig.Tags
			}
			if flags.Changed("strict") {
				c.Strict = flagConfig.Strict
			}
			if flags.Changed("verbose") {
				c.Verbose = flagConfig.Verbose
			}
			for _, name := range typeNames {
				var ident codegen.GoIdentifier
				if err := ident.UnmarshalText([]byte(name)); err != nil {
					return err
				}
				c.Types = append(c.Types, ident)
			}

			log := zap.NewNop()
			if c.Verbose {
				l, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				log = l
				defer func() { _ = log.Sync() }()
			}

			return run(cmd.Context(), &c, cmd.OutOrStdout(), log)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "read configuration file (YAML or JSON)")
	flags.StringVarP(&flagConfig.Output, "output", "o", "", "output path, - for standard output (default <dir>/"+defaultOutput+")")
	flags.StringVar((*string)(&flagConfig.Package), "package", "", "override package name")
	flags.StringVar(&flagConfig.Tags, "tags", "", "build constraint for the generated file")
	flags.StringSliceVarP(&typeNames, "type", "t", nil, "struct types to generate builders for")
	flags.BoolVar(&flagConfig.Strict, "strict", false, "reject unrecognized builder tags on slice fields")
	flags.BoolVarP(&flagConfig.Verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

// run generates builders for the package described by c and writes the
// formatted source to the configured output.
func run(ctx context.Context, c *config, stdout io.Writer, log *zap.Logger) error {
	dir := c.Dir
	if dir == "" {
		dir = "."
	}

	pkg, err := codegen.LoadPackage(ctx, codegen.LoadConfig{
		Dir:    dir,
		Logger: log,
	})
	if err != nil {
		return err
	}

	decls, err := pkg.Decls(c.typeNames())
	if err != nil {
		return err
	}
	if len(decls) == 0 {
		return errNoTypes
	}

	records, err := codegen.Analyze(decls, codegen.Options{
		Logger: log,
		Strict: c.Strict,
		Scope:  pkg.Scope(),
	})
	if err != nil {
		return err
	}

	header := codegen.Header{
		PackageName: c.Package,
		BuildTags:   c.Tags,
	}
	if header.PackageName == "" {
		header.PackageName = codegen.GoIdentifier(pkg.Name)
	}

	var buf bytes.Buffer
	if err := codegen.Generate(&buf, codegen.Config{
		Header:  header,
		Records: records,
	}); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	output := c.Output
	if output == "" {
		output = filepath.Join(dir, defaultOutput)
	}

	source, err := codegen.Format(output, buf.Bytes())
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}

	if output == "-" {
		_, err := stdout.Write(source)
		return err
	}
	log.Debug("writing output",
		zap.String("path", output),
		zap.Int("records", len(records)),
	)
	return os.WriteFile(output, source, 0o666)
}
