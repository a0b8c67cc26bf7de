package jsonschema

// registerBuiltinDialects wires the four built-in dialects (spec §4.3) in
// their fixed registration order: Draft 04, Draft 07, 2019-09, 2020-12.
// Construction-invariant failures here (duplicate ID, missing detector,
// missing identifier) indicate a programming error in this file, not bad
// input, so they panic rather than bubbling an error through NewRegistry.
func registerBuiltinDialects(dr *DialectRegistry) {
	for _, d := range []Dialect{
		draft4Dialect(),
		draft7Dialect(),
		draft2019Dialect(),
		draft2020Dialect(),
	} {
		if err := dr.Register(d); err != nil {
			panic(err)
		}
	}
	if err := dr.SetDefault(draft2020ID); err != nil {
		panic(err)
	}
}

const (
	draft4ID    = "http://json-schema.org/draft-04/schema#"
	draft7ID    = "http://json-schema.org/draft-07/schema#"
	draft2019ID = "https://json-schema.org/draft/2019-09/schema"
	draft2020ID = "https://json-schema.org/draft/2020-12/schema"
)

// 2019-09/2020-12 meta-schemas declare required/optional vocabularies by
// URI via "$vocabulary" (spec §3.3). draft4/draft7 predate the keyword
// entirely, so only these two drafts split their handlers across named
// Vocabulary entries; Dialect.ApplyVocabulary checks a document's
// "$vocabulary" object against whichever of these URIs the dialect knows.
const (
	vocabCore2019        = "https://json-schema.org/draft/2019-09/vocab/core"
	vocabApplicator2019  = "https://json-schema.org/draft/2019-09/vocab/applicator"
	vocabValidation2019  = "https://json-schema.org/draft/2019-09/vocab/validation"
	vocabFormat2019      = "https://json-schema.org/draft/2019-09/vocab/format"
	vocabContent2019     = "https://json-schema.org/draft/2019-09/vocab/content"
	vocabUnevaluated2019 = "https://json-schema.org/draft/2019-09/vocab/unevaluated"

	vocabCore2020          = "https://json-schema.org/draft/2020-12/vocab/core"
	vocabApplicator2020    = "https://json-schema.org/draft/2020-12/vocab/applicator"
	vocabValidation2020    = "https://json-schema.org/draft/2020-12/vocab/validation"
	vocabFormatAssert2020  = "https://json-schema.org/draft/2020-12/vocab/format-assertion"
	vocabContent2020       = "https://json-schema.org/draft/2020-12/vocab/content"
	vocabUnevaluated2020   = "https://json-schema.org/draft/2020-12/vocab/unevaluated"
)

// applicatorHandlers returns the keywords that apply a subschema to the
// instance or a part of it (allOf/anyOf/oneOf/not/if-then-else, properties/
// propertyNames, contains). Shared by both vocabulary-aware dialects.
func applicatorHandlers() []Handler {
	return []Handler{
		newAllOf(),
		newAnyOf(),
		newOneOf(),
		&notHandler{},
		&conditionalHandler{},
		&propertiesHandler{},
		&propertyNamesHandler{},
		&containsHandler{},
	}
}

// validationHandlers returns the keywords that assert a bare fact about the
// instance without applying a subschema (type/enum/const, the numeric and
// string-length/pattern assertions, uniqueItems, required).
func validationHandlers() []Handler {
	return []Handler{
		&typeHandler{},
		&enumHandler{},
		&constHandler{},
		newNumericHandler("multipleOf", opMultipleOf),
		newNumericHandler("maximum", opMaximum),
		newNumericHandler("minimum", opMinimum),
		newMaxLength(),
		newMinLength(),
		&patternHandler{},
		uniqueItemsHandler{},
		&requiredHandler{},
	}
}

// draft4Dialect builds Draft 04: bare "id", boolean exclusiveMinimum/
// exclusiveMaximum, array-form "items"+"additionalItems", and "dependencies"
// covering both the required-array and schema forms. Draft 04 has no
// "$anchor" keyword at all; its only anchor mechanism is a fragment-only
// "id" (idFragmentAnchorHandler).
func draft4Dialect() Dialect {
	handlers := []Handler{
		schemaDetector{},
		idIdentifier{keyword: "id"},
		idFragmentAnchorHandler{keyword: "id"},
		&exclusiveBoolHandler{keyword: "exclusiveMaximum", counterpart: "maximum"},
		&exclusiveBoolHandler{keyword: "exclusiveMinimum", counterpart: "minimum"},
		newMaxItems(),
		newMinItems(),
		newMaxProperties(),
		newMinProperties(),
		&itemsTupleHandler{},
		&dependentRequiredHandler{},
		&dependentSchemasHandler{},
		&refHandler{keyword: "$ref"},
		&formatHandlerKW{},
		&contentHandler{},
		&defsHandler{keyword: "definitions"},
	}
	handlers = append(handlers, applicatorHandlers()...)
	handlers = append(handlers, validationHandlers()...)

	return Dialect{
		ID:                draft4ID,
		PrimaryMetaschema: draft4ID,
		Metaschemas:       []string{draft4ID},
		// Draft-04 predates "$vocabulary"; one unnamed-by-spec vocabulary
		// holds every handler.
		Vocabularies: []Vocabulary{
			{URI: draft4ID, Handlers: handlers},
		},
	}
}

// draft7Dialect builds Draft 07: "$id" replaces "id", exclusiveMinimum/
// exclusiveMaximum become numeric-valued, "if"/"then"/"else" and
// "contentEncoding"/"contentMediaType" are introduced. Like draft-04,
// draft-07 has no "$anchor" keyword — "$id"'s fragment form is still the
// only anchor mechanism.
func draft7Dialect() Dialect {
	handlers := []Handler{
		schemaDetector{},
		idIdentifier{keyword: "$id"},
		idFragmentAnchorHandler{keyword: "$id"},
		newNumericHandler("exclusiveMaximum", opExclusiveMaximum),
		newNumericHandler("exclusiveMinimum", opExclusiveMinimum),
		newMaxItems(),
		newMinItems(),
		newMaxProperties(),
		newMinProperties(),
		&itemsTupleHandler{},
		&dependentRequiredHandler{},
		&dependentSchemasHandler{},
		&refHandler{keyword: "$ref"},
		&formatHandlerKW{},
		&contentHandler{},
		&defsHandler{keyword: "definitions"},
	}
	handlers = append(handlers, applicatorHandlers()...)
	handlers = append(handlers, validationHandlers()...)

	return Dialect{
		ID:                draft7ID,
		PrimaryMetaschema: draft7ID,
		Metaschemas:       []string{draft7ID},
		// Draft-07 also predates "$vocabulary".
		Vocabularies: []Vocabulary{
			{URI: draft7ID, Handlers: handlers},
		},
	}
}

// draft2019Dialect builds 2019-09: "$anchor"/"$recursiveAnchor" proper,
// "$defs", "$recursiveRef", "dependentSchemas"/"dependentRequired" replace
// "dependencies", "prefixItems" does not yet exist (items stays
// array-or-schema form per 2019-09, so itemsTupleHandler's draft-07 branch
// still applies), and "unevaluatedItems"/"unevaluatedProperties" appear.
func draft2019Dialect() Dialect {
	core := []Handler{
		schemaDetector{},
		idIdentifier{keyword: "$id"},
		anchorLocatorHandler{plainKeyword: "$anchor", recursiveKeyword: "$recursiveAnchor"},
		&refHandler{keyword: "$ref"},
		&refHandler{keyword: "$recursiveRef", dynamic: true},
		&defsHandler{keyword: "$defs"},
		&defsHandler{keyword: "definitions"},
	}
	applicator := append([]Handler{
		newMaxItems(),
		newMinItems(),
		newMaxProperties(),
		newMinProperties(),
		&itemsTupleHandler{},
		&dependentSchemasHandler{},
	}, applicatorHandlers()...)
	validation := append([]Handler{
		&dependentRequiredHandler{},
		newNumericHandler("exclusiveMaximum", opExclusiveMaximum),
		newNumericHandler("exclusiveMinimum", opExclusiveMinimum),
	}, validationHandlers()...)

	return Dialect{
		ID:                draft2019ID,
		PrimaryMetaschema: draft2019ID,
		Metaschemas:       []string{draft2019ID},
		Vocabularies: []Vocabulary{
			{URI: vocabCore2019, Handlers: core},
			{URI: vocabApplicator2019, Handlers: applicator},
			{URI: vocabValidation2019, Handlers: validation},
			{URI: vocabFormat2019, Handlers: []Handler{&formatHandlerKW{}}},
			{URI: vocabContent2019, Handlers: []Handler{&contentHandler{}}},
			{URI: vocabUnevaluated2019, Handlers: []Handler{
				&unevaluatedItemsHandler{},
				&unevaluatedPropertiesHandler{},
			}},
		},
	}
}

// draft2020Dialect builds 2020-12: "$dynamicAnchor"/"$dynamicRef" replace
// the recursive forms, and "items" splits into "prefixItems" (positional)
// plus "items" (single schema applied past the prefix) — both handled by
// itemsTupleHandler's prefixItems branch.
func draft2020Dialect() Dialect {
	core := []Handler{
		schemaDetector{},
		idIdentifier{keyword: "$id"},
		anchorLocatorHandler{plainKeyword: "$anchor", dynamicKeyword: "$dynamicAnchor"},
		&refHandler{keyword: "$ref"},
		&refHandler{keyword: "$dynamicRef", dynamic: true},
		&defsHandler{keyword: "$defs"},
		&defsHandler{keyword: "definitions"},
	}
	applicator := append([]Handler{
		newMaxItems(),
		newMinItems(),
		newMaxProperties(),
		newMinProperties(),
		&itemsTupleHandler{},
		&dependentSchemasHandler{},
	}, applicatorHandlers()...)
	validation := append([]Handler{
		&dependentRequiredHandler{},
		newNumericHandler("exclusiveMaximum", opExclusiveMaximum),
		newNumericHandler("exclusiveMinimum", opExclusiveMinimum),
	}, validationHandlers()...)

	return Dialect{
		ID:                draft2020ID,
		PrimaryMetaschema: draft2020ID,
		Metaschemas:       []string{draft2020ID},
		Vocabularies: []Vocabulary{
			{URI: vocabCore2020, Handlers: core},
			{URI: vocabApplicator2020, Handlers: applicator},
			{URI: vocabValidation2020, Handlers: validation},
			{URI: vocabFormatAssert2020, Handlers: []Handler{&formatHandlerKW{}}},
			{URI: vocabContent2020, Handlers: []Handler{&contentHandler{}}},
			{URI: vocabUnevaluated2020, Handlers: []Handler{
				&unevaluatedItemsHandler{},
				&unevaluatedPropertiesHandler{},
			}},
		},
	}
}
