// Package automl contains the core vocabulary of the automl dataset-management
// library: feature types, task types and preprocessing policies which are shared
// by the table, schema, subset, preprocess, dataset and compare packages. This
// root package is an excellent overview of the library's key concepts.
package automl
