// Package jsonschema implements a JSON Schema compiler and evaluator
// spanning Draft 04 through 2020-12, built as a layered pipeline: a source
// registry resolves and caches raw documents, a dialect registry classifies
// each document's keyword vocabulary, a worklist compiler turns reachable
// schemas into keyed, cycle-checked compiled records, and an evaluator
// produces Flag, Basic, Detailed, or Verbose output from one shared result
// tree.
//
// Credit to https://github.com/santhosh-tekuri/jsonschema for format validators.
package jsonschema
