package analyzer

const (
	jsFunctionPattern = `^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*(\w+)|^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*=\s*(?:async\s+)?(?:\([^)]*\)\s*=>|\w+\s*=>|function)`
	jsClassPattern    = `^\s*(?:export\s+)?(?:default\s+)?class\s+(\w+)`
	tsFunctionPattern = `^\s*(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*(\w+)|^\s*(?:export\s+)?(?:const|let|var)\s+(\w+)\s*(?::[^=]+)?=\s*(?:async\s+)?(?:\([^)]*\)\s*(?::\s*[^=]+)?=>|\w+\s*=>|function)`
	tsClassPattern    = `^\s*(?:export\s+)?(?:default\s+)?(?:abstract\s+)?(?:class|interface)\s+(\w+)`
	cppClassPattern   = `^\s*(?:template\s*<[^>]*>\s*)?(?:class|struct)\s+(\w+)`
)

// DefaultRegistry builds the registry of every supported language.
func DefaultRegistry() *Registry {
	registry := NewRegistry()

	registry.Register(newRegexProfile(
		[]string{`^\s*(?:async\s+)?def\s+(\w+)\s*\(`},
		[]string{`^\s*class\s+(\w+)\s*[(:]`},
		false,
	), ".py")

	registry.Register(newRegexProfile(
		[]string{jsFunctionPattern},
		[]string{jsClassPattern},
		false,
	), ".js", ".mjs", ".cjs", ".jsx")

	registry.Register(newRegexProfile(
		[]string{tsFunctionPattern},
		[]string{tsClassPattern},
		false,
	), ".ts", ".tsx")

	registry.Register(newRegexProfile(
		[]string{`^\s*(?:(?:public|private|protected|static|final|abstract|synchronized|native)\s+)*(?:<[^>]*>\s+)?[\w<>\[\],.?]+\s+(\w+)\s*\([^)]*\)\s*(?:throws\s+[\w\s,.]+)?\s*\{`},
		[]string{`^\s*(?:(?:public|private|protected|abstract|final|static|sealed)\s+)*(?:class|interface|enum|record|@interface)\s+(\w+)`},
		true,
	), ".java")

	registry.Register(newRegexProfile(
		[]string{`^\s*(?:static\s+)?(?:inline\s+)?(?:const\s+)?(?:unsigned\s+|signed\s+|struct\s+)?[\w*]+\s+\**(\w+)\s*\([^)]*\)\s*\{`},
		[]string{`^\s*(?:typedef\s+)?struct\s+(\w+)\s*\{`},
		true,
	), ".c")

	registry.Register(newRegexProfile(
		[]string{`^\s*(?:virtual\s+)?(?:static\s+)?(?:inline\s+)?(?:const\s+)?[\w*<>:]+\s+[*&]*(\w+)\s*\([^)]*\)(?:\s*const)?\s*;`},
		[]string{cppClassPattern},
		true,
	), ".h")

	registry.Register(newRegexProfile(
		[]string{`^\s*(?:virtual\s+)?(?:static\s+)?(?:inline\s+)?(?:constexpr\s+)?(?:const\s+)?[\w*<>:]+\s+[*&]*(?:\w+::)*(\w+)\s*\([^)]*\)(?:\s*const)?(?:\s*override)?\s*(?:\{|;)`},
		[]string{cppClassPattern},
		true,
	), ".cpp", ".cc", ".cxx", ".hpp", ".hh")

	registry.Register(newRegexProfile(
		[]string{`^\s*(?:(?:public|private|protected|internal|static|virtual|override|abstract|async|sealed|extern|partial|unsafe)\s+)+[\w<>\[\],.?]+\s+(\w+)\s*(?:<[^>]*>)?\s*\(`},
		[]string{`^\s*(?:(?:public|private|protected|internal|static|abstract|sealed|partial)\s+)*(?:class|interface|struct|enum|record)\s+(\w+)`},
		true,
	), ".cs")

	registry.Register(newRegexProfile(
		[]string{`^\s*func\s+(?:\([^)]*\)\s*)?(\w+)\s*[(\[]`},
		[]string{`^\s*type\s+(\w+)(?:\[[^\]]*\])?\s+(?:struct|interface)\b`},
		false,
	), ".go")

	registry.Register(newRegexProfile(
		[]string{`^\s*def\s+(?:self\.)?(\w+[?!]?)`},
		[]string{`^\s*(?:class|module)\s+(\w+)`},
		false,
	), ".rb")

	registry.Register(newRegexProfile(
		[]string{`^\s*(?:(?:public|private|protected|static|abstract|final)\s+)*function\s+(\w+)\s*\(`},
		[]string{`^\s*(?:(?:abstract|final|readonly)\s+)*(?:class|interface|trait|enum)\s+(\w+)`},
		false,
	), ".php")

	registry.Register(newRegexProfile(
		[]string{`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:const\s+)?(?:async\s+)?(?:unsafe\s+)?(?:extern\s+"[^"]*"\s+)?fn\s+(\w+)`},
		[]string{`^\s*(?:pub(?:\([^)]*\))?\s+)?(?:struct|enum|trait)\s+(\w+)`},
		false,
	), ".rs")

	registry.Register(newRegexProfile(
		[]string{`^\s*(?:(?:public|private|internal|fileprivate|open|static|class|override|mutating|final|@\w+)\s+)*func\s+(\w+)`},
		[]string{`^\s*(?:(?:public|private|internal|fileprivate|open|final)\s+)*(?:class|struct|enum|protocol|actor)\s+(\w+)`},
		false,
	), ".swift")

	registry.Register(newRegexProfile(
		[]string{`^\s*(?:(?:public|private|protected|internal|override|open|suspend|inline|operator|infix|tailrec)\s+)*fun\s+(?:<[^>]*>\s*)?(?:\w+\.)?(\w+)`},
		[]string{`^\s*(?:(?:public|private|protected|internal|abstract|final|open|data|sealed|inner|enum|annotation)\s+)*(?:class|interface|object)\s+(\w+)`},
		false,
	), ".kt", ".kts")

	registry.Register(newRegexProfile(
		[]string{jsFunctionPattern, `^\s+(\w+)\s*\([^)]*\)\s*\{`},
		[]string{jsClassPattern},
		true,
	), ".vue")

	registry.Register(newRegexProfile(
		[]string{jsFunctionPattern},
		[]string{jsClassPattern},
		false,
	), ".svelte")

	return registry
}
