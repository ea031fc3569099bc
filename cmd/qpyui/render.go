package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mind-engage/questionui/internal/questionui"
)

type renderFlags struct {
	part         string
	seed         int64
	placeholders string
	response     string
	options      string
	save         string
}

func newRenderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render one part (or all parts) of a question UI as XHTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], f)
		},
	}
	cmd.Flags().StringVar(&f.part, "part", "formulation", "formulation|general-feedback|specific-feedback|right-answer|all")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "shuffle seed; random when not set")
	cmd.Flags().StringVar(&f.placeholders, "placeholders", "", "YAML/JSON file with placeholder values")
	cmd.Flags().StringVar(&f.response, "response", "", "YAML/JSON file with the previous response")
	cmd.Flags().StringVar(&f.options, "options", "", "YAML/JSON file with display options")
	cmd.Flags().StringVar(&f.save, "save", "", "also store the output in the blob store under this prefix")
	return cmd
}

func runRender(cmd *cobra.Command, path string, f renderFlags) error {
	a := appFrom(cmd)
	var extra []questionui.Option
	if cmd.Flags().Changed("seed") {
		extra = append(extra, questionui.WithSeed(f.seed))
	}
	doc, err := parseFile(cmd, path, f.placeholders, extra...)
	if err != nil {
		return err
	}

	var (
		response questionui.Response
		opts     *questionui.DisplayOptions
	)
	if err := loadValues(f.response, &response); err != nil {
		return err
	}
	if f.options != "" {
		o := questionui.DefaultDisplayOptions()
		if err := loadValues(f.options, &o); err != nil {
			return err
		}
		opts = &o
	}

	parts := questionui.Parts
	if f.part != "all" {
		p, ok := questionui.ParsePart(f.part)
		if !ok {
			return fmt.Errorf("unknown part %q", f.part)
		}
		parts = []questionui.Part{p}
	}

	out := cmd.OutOrStdout()
	for _, p := range parts {
		html, ok, err := doc.RenderPart(p, response, opts)
		if err != nil {
			return err
		}
		if !ok {
			a.log.Debug("part not present", "part", p)
			continue
		}
		if len(parts) > 1 {
			fmt.Fprintf(out, "<!-- %s -->\n", p)
		}
		fmt.Fprintln(out, html)

		if f.save != "" {
			bs, err := a.blobs()
			if err != nil {
				return err
			}
			key, err := bs.Put(strings.TrimSuffix(f.save, "/")+"/"+string(p)+".xhtml", strings.NewReader(html))
			if err != nil {
				return err
			}
			u, err := bs.SignedURL(key)
			if err != nil {
				return err
			}
			a.log.Info("saved render", "part", p, "url", u)
		}
	}
	return nil
}

func parseFile(cmd *cobra.Command, path, placeholdersFile string, extra ...questionui.Option) (*questionui.Document, error) {
	src, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	var placeholders map[string]string
	if err := loadValues(placeholdersFile, &placeholders); err != nil {
		return nil, err
	}
	opts := append(append([]questionui.Option{}, appFrom(cmd).docOpts...), extra...)
	return questionui.Parse(src, placeholders, opts...)
}

func newMetadataCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "metadata <file>",
		Short: "Print the correct responses, expected fields and required fields of a question UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := parseFile(cmd, args[0], "")
			if err != nil {
				return err
			}
			return printValue(cmd, format, doc.Metadata())
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json|yaml")
	return cmd
}

func printValue(cmd *cobra.Command, format string, v any) error {
	out := cmd.OutOrStdout()
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
