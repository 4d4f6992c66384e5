package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"blog-admin/internal/admin"
	"blog-admin/internal/admin/blogadmin"
	artUC "blog-admin/internal/usecase/article"
	userUC "blog-admin/internal/usecase/user"
)

type fieldDescription struct {
	Name       string `yaml:"name"`
	Label      string `yaml:"label"`
	Kind       string `yaml:"kind"`
	Required   bool   `yaml:"required,omitempty"`
	MaxLength  int    `yaml:"max_length,omitempty"`
	Readonly   bool   `yaml:"readonly,omitempty"`
	References string `yaml:"references,omitempty"`
}

type modelDescription struct {
	Model  string             `yaml:"model"`
	Plural string             `yaml:"plural"`
	Fields []fieldDescription `yaml:"fields"`
	Admin  admin.ModelAdmin   `yaml:"admin"`
}

func describe(r *admin.Registration) modelDescription {
	d := modelDescription{
		Model:  r.Schema.Name,
		Plural: r.Schema.Plural,
		Admin:  r.Admin,
	}
	for _, f := range r.Schema.Fields {
		d.Fields = append(d.Fields, fieldDescription{
			Name:       f.Name,
			Label:      f.Label,
			Kind:       string(f.Kind),
			Required:   f.Required,
			MaxLength:  f.MaxLength,
			Readonly:   !f.Editable || r.Admin.IsReadonly(f.Name),
			References: f.References,
		})
	}
	return d
}

func newAdminCmd(_ *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Inspect the admin site",
	}

	describeCmd := &cobra.Command{
		Use:   "describe [MODEL]",
		Short: "Print the registered admin configuration as YAML",
		Long: `Print the schema and admin options of every registered model, or of MODEL
only. The output mirrors what the admin API serves: list columns, search
fields, filters, default ordering, read-only fields and form sections.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			site := admin.NewSite()
			if err := blogadmin.Setup(site, &artUC.Service{}, &userUC.Service{}); err != nil {
				return err
			}

			var out []modelDescription
			if len(args) == 1 {
				r, ok := site.Lookup(args[0])
				if !ok {
					return fmt.Errorf("%w: %q", admin.ErrModelNotFound, args[0])
				}
				out = append(out, describe(r))
			} else {
				for _, r := range site.Models() {
					out = append(out, describe(r))
				}
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			for _, d := range out {
				if err := enc.Encode(d); err != nil {
					return err
				}
			}
			return enc.Close()
		},
	}

	cmd.AddCommand(describeCmd)
	return cmd
}
