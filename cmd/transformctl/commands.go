package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

func newCheckCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check MODEL",
		Short: "Validate, build and verify every transformation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := o.start(args[0])
			if m != nil && o.dump {
				dump(cmd.OutOrStdout(), m.Diagnostics())
			}

			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d transformations, %d estimates, %d warnings\n",
				m.Transformations().Len(), len(m.Estimates().All()), len(m.Diagnostics().Warnings))

			return err
		},
	}
}

func newReportCmd(o *options) *cobra.Command {
	var tabular bool

	cmd := &cobra.Command{
		Use:   "report MODEL",
		Short: "Print the report cache of every transformation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := o.start(args[0])
			if err != nil {
				return err
			}

			if _, err := m.Objective(); err != nil {
				return err
			}

			if tabular {
				err = m.TabularReport(cmd.OutOrStdout(), true)
			} else {
				err = m.Report(cmd.OutOrStdout())
			}

			if err == nil && o.dump {
				dump(cmd.OutOrStdout(), m.Diagnostics())
			}

			return err
		},
	}

	cmd.Flags().BoolVar(&tabular, "tabular", false, "write one row per transformation with a header")

	return cmd
}

func newObjectiveCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "objective MODEL",
		Short: "Evaluate the prior and Jacobian contributions at the current values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := o.start(args[0])
			if err != nil {
				return err
			}

			s, err := m.Objective()
			if err != nil {
				return err
			}

			if o.dump {
				dump(cmd.OutOrStdout(), s)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), s)

			return err
		},
	}
}

func dump(w io.Writer, v any) {
	cfg := spew.ConfigState{Indent: "  ", DisableMethods: true, DisablePointerAddresses: true, SortKeys: true}
	cfg.Fdump(w, v)
}
