package jsonschema

import "errors"

// === L1 URI errors ===
var (
	ErrURIOverflow        = errors.New("uri exceeds maximum length")
	ErrURIInvalidScheme   = errors.New("invalid uri scheme")
	ErrURIMalformedAuth   = errors.New("malformed uri authority")
	ErrURIInvalidPort     = errors.New("invalid uri port")
	ErrURINotAbsolute     = errors.New("uri is not absolute")
	ErrURIFragmentOnID    = errors.New("absolute uri identifier must not carry a fragment")
	ErrURIAmbiguousFrag   = errors.New("uri fragment is neither a valid anchor name nor a json pointer")
)

// === L2 source registry errors ===
var (
	ErrSourceConflict       = errors.New("source already registered with different content")
	ErrSourceNotFound       = errors.New("source not found")
	ErrDeserializationFail  = errors.New("no deserializer could parse the source")
	ErrUnexpectedURIFrag    = errors.New("source uri must not carry a fragment")
	ErrInvalidUTF8          = errors.New("source bytes are not valid utf-8")
	ErrPointerResolveFailed = errors.New("json pointer failed to parse or resolve")
	ErrLinkPathNotFound     = errors.New("link pointer does not resolve within source")
	ErrLinkConflict         = errors.New("child uri already linked to a different value")
	ErrResolveFailed        = errors.New("no resolver could fetch the uri")
	ErrNoResolversRegistered = errors.New("no resolvers registered")
)

// === L3 dialect registry errors ===
var (
	ErrDialectRegistryEmpty       = errors.New("dialect registry must not be empty")
	ErrDialectDuplicate           = errors.New("dialect already registered under this uri")
	ErrDialectDefaultNotFound     = errors.New("default dialect id is not a registered dialect")
	ErrDialectFragmentedID        = errors.New("dialect id must not carry a fragment")
	ErrDialectPrimaryMetaMissing  = errors.New("dialect primary metaschema is not among its metaschemas")
	ErrDialectNoPertinentTo       = errors.New("dialect has no handler implementing is_pertinent_to")
	ErrDialectNoDialectDetect     = errors.New("dialect has no handler implementing the dialect capability")
	ErrDialectNoIdentify          = errors.New("dialect has no handler implementing identify")
	ErrDialectNotKnown            = errors.New("schema declares an unregistered dialect uri")
	ErrDialectUnknownVocabulary   = errors.New("meta-schema requires an unrecognized vocabulary")
)

// === L4 compiler errors ===
var (
	ErrSchemaNotFound        = errors.New("schema not found at uri")
	ErrSchemaIdentifyFailed  = errors.New("schema identification failed")
	ErrSubschemaLocateFailed = errors.New("failed to locate subschemas")
	ErrAnchorNotFound        = errors.New("anchor not found")
	ErrAnchorMalformed       = errors.New("anchor name is malformed")
	ErrCyclicDependency      = errors.New("cyclic static reference dependency")
	ErrCompileInvalidType    = errors.New("schema value has an invalid type")
	ErrRefResolution         = errors.New("reference could not be resolved")
)

// === L5 evaluate errors ===
var (
	ErrUnknownSchemaKey = errors.New("unknown schema key")
	ErrParseNumber      = errors.New("failed to parse numeric lexeme")
	ErrEvaluateRegex    = errors.New("failed to evaluate regular expression")
)

// === Network fetch errors (resolver.go) ===
var (
	ErrNetworkFetch      = errors.New("network fetch failed")
	ErrInvalidStatusCode = errors.New("invalid http status code")
)

// === Rat conversion errors (rat.go) ===
var (
	ErrUnsupportedTypeForRat = errors.New("unsupported type for rat conversion")
	ErrFailedToConvertToRat  = errors.New("failed to convert value to rat")
)

// === Format validation errors (formats.go) ===
var (
	ErrIPv6AddressNotEnclosed = errors.New("ipv6 address must be enclosed in brackets")
	ErrInvalidIPv6Address     = errors.New("invalid ipv6 address")
)
