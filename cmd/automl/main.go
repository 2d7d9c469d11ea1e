package main

import (
	"fmt"
	"math/rand"
	"os"
	"sort"

	"github.com/go-automl/automl"
	"github.com/go-automl/automl/compare"
	"github.com/go-automl/automl/dataset"
	"github.com/go-automl/automl/preprocess"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	testSize      float64
	seed          int64
	encoding      string
	imputation    string
	normalization string
	outDir        string
	outName       string
	target        string
	verbose       bool
)

func main() {
	root := &cobra.Command{
		Use:          "automl",
		Short:        "Manage, preprocess and compare AutoML-format tabular datasets",
		SilenceUsage: true,
	}
	root.PersistentFlags().Float64Var(&testSize, "test-size", 0.2, "test proportion when the dataset has no pre-split files")
	root.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed for splits and shuffles (0 means time-based)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(describeCommand())
	root.AddCommand(processCommand())
	root.AddCommand(compareCommand())
	root.AddCommand(convertCommand())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

func rng() *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(seed))
}

func loadOptions() []dataset.Option {
	opts := []dataset.Option{
		dataset.WithTestSize(testSize),
		dataset.WithLogger(logger()),
	}
	if r := rng(); r != nil {
		opts = append(opts, dataset.WithRand(r))
	}
	return opts
}

func pipelineConfig() preprocess.Config {
	cfg := preprocess.DefaultConfig()
	if encoding != "" {
		cfg.Encoding = automl.EncodingPolicy(encoding)
	}
	if imputation != "" {
		cfg.Imputation = preprocess.Imputation{
			Binary:      automl.ImputationPolicy(imputation),
			Categorical: automl.ImputationPolicy(imputation),
			Numerical:   automl.ImputationPolicy(imputation),
		}
	}
	if normalization != "" {
		cfg.Normalization = automl.NormalizationPolicy(normalization)
	}
	return cfg
}

func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&encoding, "encoding", "", "categorical encoding policy (label, one-hot, likelihood, none)")
	cmd.Flags().StringVar(&imputation, "imputation", "", "imputation policy for every feature type (remove, mean, median, most, none)")
	cmd.Flags().StringVar(&normalization, "normalization", "", "normalization policy (standard, min-max, none)")
}

func describeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <dir> <basename>",
		Short: "Print metadata and statistical descriptors of a dataset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dataset.Load(args[0], args[1], loadOptions()...)
			if err != nil {
				return err
			}
			info := ds.Info()
			fmt.Printf("name:        %s\n", ds.Name())
			fmt.Printf("task:        %s\n", info.Task)
			fmt.Printf("metric:      %s\n", info.Metric)
			fmt.Printf("format:      %s\n", info.Format)
			fmt.Printf("features:    %d\n", info.FeatNum)
			fmt.Printf("train rows:  %d\n", info.TrainNum)
			fmt.Printf("test rows:   %d\n", info.TestNum)
			fmt.Printf("targets:     %d\n", info.TargetNum)
			fmt.Printf("missing:     %d\n", info.HasMissing)
			fmt.Printf("categorical: %d\n", info.HasCategorical)
			desc, err := ds.Descriptors(false)
			if err != nil {
				return err
			}
			printFields(desc.Fields())
			return nil
		},
	}
}

func processCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <dir> <basename>",
		Short: "Run the preprocessing pipeline and save the result",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dataset.Load(args[0], args[1], loadOptions()...)
			if err != nil {
				return err
			}
			if _, err := ds.Process(pipelineConfig()); err != nil {
				return err
			}
			name := outName
			if name == "" {
				name = ds.Name()
			}
			if err := ds.Save(outDir, name); err != nil {
				return err
			}
			fmt.Printf("saved processed dataset %s to %s\n", name, outDir)
			return nil
		},
	}
	addPipelineFlags(cmd)
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().StringVar(&outName, "name", "", "output basename (defaults to the input basename)")
	return cmd
}

func compareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <dir1> <basename1> <dir2> <basename2>",
		Short: "Compute resemblance metrics between two datasets",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds1, err := dataset.Load(args[0], args[1], loadOptions()...)
			if err != nil {
				return err
			}
			ds2, err := dataset.Load(args[2], args[3], loadOptions()...)
			if err != nil {
				return err
			}
			cmp, err := compare.Create(ds1, ds2, pipelineConfig())
			if err != nil {
				return err
			}
			fmt.Printf("identical: %t\n", cmp.Equal())
			for _, cc := range cmp.Matrix() {
				if cc.Type == automl.Numerical {
					fmt.Printf("%-24s %-12s ks=%.4f\n", cc.Column, cc.Type, cc.KolmogorovSmirnov)
				} else {
					fmt.Printf("%-24s %-12s kl=%.4f/%.4f mi=%.4f js=%.4f\n",
						cc.Column, cc.Type, cc.KLForward, cc.KLBackward, cc.MutualInformation, cc.JensenShannon)
				}
			}
			accuracy, err := cmp.Classify(rng())
			if err != nil {
				return err
			}
			fmt.Printf("classifier accuracy: %.4f (0.5 means indistinguishable)\n", accuracy)
			distances, err := cmp.DescriptorDistances()
			if err != nil {
				return err
			}
			printFields(distances)
			return nil
		},
	}
	addPipelineFlags(cmd)
	return cmd
}

func convertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <csv> <dir> <basename>",
		Short: "Convert a CSV file into an AutoML-format dataset",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dataset.FromCSV(args[1], args[2], args[0], target, loadOptions()...)
			if err != nil {
				return err
			}
			fmt.Printf("converted %s: %d features, %d train rows, %d test rows\n",
				ds.Name(), ds.Info().FeatNum, ds.Info().TrainNum, ds.Info().TestNum)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "name of the target column in the CSV header")
	return cmd
}

func printFields(fields map[string]float64) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-24s %.6f\n", k, fields[k])
	}
}
