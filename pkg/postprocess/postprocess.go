// Package postprocess rewrites a raw transcript through a fixed, strictly
// ordered pipeline of pure string-to-string stages, turning spoken utterances
// into code-idiomatic text and inline command markers. Reordering the stages
// changes semantics — see the ordering note on each stage below — so the
// pipeline is expressed as a single ordered list, never ad-hoc nesting.
package postprocess

import (
	"regexp"
	"strings"
)

// Processor is stateless and safe for concurrent use: every stage is a pure
// function of its input string plus the package's pre-compiled patterns.
type Processor struct {
	keywords       map[string]string
	fileExtensions map[string]bool
}

// New builds a Processor with the default keyword and extension tables.
func New() *Processor {
	p := &Processor{
		keywords:       make(map[string]string, len(keywordList)),
		fileExtensions: make(map[string]bool, len(fileExtensionList)),
	}
	for _, kw := range keywordList {
		p.keywords[strings.ToLower(kw)] = kw
	}
	for _, ext := range fileExtensionList {
		p.fileExtensions[ext] = true
	}
	return p
}

var keywordList = []string{
	"if", "else", "for", "while", "do", "switch", "case", "break", "continue",
	"return", "function", "const", "let", "var", "class", "struct", "enum",
	"interface", "type", "import", "export", "from", "as", "default", "async",
	"await", "try", "catch", "finally", "throw", "new", "this", "self", "super",
	"public", "private", "protected", "static", "final", "abstract", "virtual",
	"override", "implements", "extends", "null", "undefined", "none", "nil",
	"true", "false", "and", "or", "not", "in", "is", "typeof", "instanceof",
	"void", "int", "float", "double", "string", "bool", "boolean", "char",
	"array", "list", "map", "set", "dict", "tuple", "option", "result",
	"println", "print", "console", "log", "debug", "info", "warn", "error",
}

var fileExtensionList = []string{
	"js", "ts", "tsx", "jsx", "rs", "py", "go", "rb", "java", "cpp", "c",
	"h", "hpp", "css", "scss", "sass", "less", "html", "htm", "json", "yaml",
	"yml", "toml", "xml", "md", "txt", "sh", "bash", "zsh", "fish", "sql",
	"vue", "svelte", "astro", "php", "swift", "kt", "scala", "ex", "exs",
	"erl", "hs", "ml", "fs", "clj", "lisp", "r", "jl", "lua", "pl", "pm",
}

// fileExtAlt is the subset of extensions recognised inside the dotted-name
// patterns below; kept narrower than fileExtensionList (matching the
// original pipeline) so common English words that are also extensions in the
// full list, like "less" or "fish", don't spuriously trigger a file-mention
// rewrite.
const fileExtAlt = `js|ts|tsx|jsx|rs|py|go|rb|java|cpp|c|h|hpp|css|scss|html|json|yaml|yml|toml|md|txt|sh|bash|sql|vue|svelte|astro`

const fileMentionExtAlt = fileExtAlt + `|env|config|lock|gitignore|dockerignore|makefile`

var (
	// Stage 1: voice commands.
	allCapsPattern  = regexp.MustCompile(`(?i)\ball\s+caps\s+(.+?)\s+end\s+caps\b`)
	noCapsPattern   = regexp.MustCompile(`(?i)\bno\s+caps\s+(.+?)\s+end\s+caps\b`)
	capWordPattern  = regexp.MustCompile(`(?i)\bcap\s+word\s+([a-z]+)\b`)
	newlinePattern  = regexp.MustCompile(`(?i)\s*\bnew\s*(line|paragraph)\b\.?\s*`)
	punctuationWord = []struct {
		pattern *regexp.Regexp
		literal string
	}{
		{regexp.MustCompile(`(?i)\bcomma\b`), ","},
		{regexp.MustCompile(`(?i)\bexclamation\s*(mark|point)\b`), "!"},
		{regexp.MustCompile(`(?i)\bquestion\s*mark\b`), "?"},
		{regexp.MustCompile(`(?i)\bquote(?:\s*mark)?\b`), "\""},
		{regexp.MustCompile(`(?i)\bapostrophe\b`), "'"},
		{regexp.MustCompile(`(?i)\bampersand\b`), "&"},
		{regexp.MustCompile(`(?i)\basterisk\b`), "*"},
		{regexp.MustCompile(`(?i)\bpercent(?:\s*sign)?\b`), "%"},
		{regexp.MustCompile(`(?i)\b(hash|pound)(?:\s*sign)?\b`), "#"},
		{regexp.MustCompile(`(?i)\bat\s*sign\b`), "@"},
		{regexp.MustCompile(`(?i)\bdollar(?:\s*sign)?\b`), "$"},
		{regexp.MustCompile(`(?i)\bplus(?:\s*sign)?\b`), "+"},
		{regexp.MustCompile(`(?i)\bcaret\b`), "^"},
		{regexp.MustCompile(`(?i)\btilde\b`), "~"},
		{regexp.MustCompile(`(?i)\bpipe\b`), "|"},
		{regexp.MustCompile(`(?i)\bbacktick\b`), "`"},
	}

	commandPhrases = []struct {
		pattern *regexp.Regexp
		marker  Marker
	}{
		{regexp.MustCompile(`(?i)\b(scratch|delete)\s+that\.?`), MarkerDeleteLast},
		{regexp.MustCompile(`(?i)\bundo(?:\s+that)?\.?`), MarkerUndo},
		{regexp.MustCompile(`(?i)\bredo(?:\s+that)?\.?`), MarkerRedo},
		{regexp.MustCompile(`(?i)\bselect\s+all\.?`), MarkerSelectAll},
		{regexp.MustCompile(`(?i)\bcopy(?:\s+that)?\.?`), MarkerCopy},
		{regexp.MustCompile(`(?i)\bcut(?:\s+that)?\.?`), MarkerCut},
		{regexp.MustCompile(`(?i)\bpaste(?:\s+that)?\.?`), MarkerPaste},
		{regexp.MustCompile(`(?i)\bbackspace\.?`), MarkerBackspace},
		{regexp.MustCompile(`(?i)\bdelete\s+word\.?`), MarkerDeleteWord},
		{regexp.MustCompile(`(?i)\bdelete\s+line\.?`), MarkerDeleteLine},
		{regexp.MustCompile(`(?i)\b(press|hit)\s+enter\.?`), MarkerEnter},
		{regexp.MustCompile(`(?i)\b(press|hit)\s+tab\.?`), MarkerTab},
		{regexp.MustCompile(`(?i)\b(press\s+)?escape\.?`), MarkerEscape},
		{regexp.MustCompile(`(?i)\b(go|move|arrow)\s+left\.?`), MarkerLeft},
		{regexp.MustCompile(`(?i)\b(go|move|arrow)\s+right\.?`), MarkerRight},
		{regexp.MustCompile(`(?i)\b(go|move|arrow)\s+up\.?`), MarkerUp},
		{regexp.MustCompile(`(?i)\b(go|move|arrow)\s+down\.?`), MarkerDown},
		{regexp.MustCompile(`(?i)\b(go|move)\s+(to\s+)?(start|home)\.?`), MarkerHome},
		{regexp.MustCompile(`(?i)\b(go|move)\s+(to\s+)?end\.?`), MarkerEnd},
		{regexp.MustCompile(`(?i)\b(word\s+left|previous\s+word)\.?`), MarkerWordLeft},
		{regexp.MustCompile(`(?i)\b(word\s+right|next\s+word)\.?`), MarkerWordRight},
	}

	// Stage 2: explicit casing requests.
	camelCasePattern    = regexp.MustCompile(`(?i)\bcamel\s*case\s+([a-z]+(?:\s+[a-z]+)*)\b`)
	snakeCasePattern    = regexp.MustCompile(`(?i)\bsnake\s*case\s+([a-z]+(?:\s+[a-z]+)*)\b`)
	pascalCasePattern   = regexp.MustCompile(`(?i)\bpascal\s*case\s+([a-z]+(?:\s+[a-z]+)*)\b`)
	kebabCasePattern    = regexp.MustCompile(`(?i)\bkebab\s*case\s+([a-z]+(?:\s+[a-z]+)*)\b`)
	constantCasePattern = regexp.MustCompile(`(?i)\b(?:constant|screaming)\s*case\s+([a-z]+(?:\s+[a-z]+)*)\b`)

	// Stage 3: function declarations.
	functionPattern = regexp.MustCompile(`(?i)\b(?:function|func|method|def)\s+([a-z]+(?:\s+[a-z]+)*)\b`)

	// Stage 4: file mentions.
	fileMentionPattern = regexp.MustCompile(`(?i)\b(in|the|file|from|to|open|edit|fix|update|check|see|look at|modify|change|review|refactor)\s+([a-z][a-z0-9_-]*)\s+dot\s+(` + fileMentionExtAlt + `)\b`)
	standaloneFilePattern = regexp.MustCompile(`(?i)\b([a-z][a-z0-9_-]*)\s+dot\s+(` + fileExtAlt + `)\b`)
	bareFileRefPattern    = regexp.MustCompile(`\b([a-zA-Z][a-zA-Z0-9_-]*)\.(` + fileExtAlt + `)\b`)
	doubleAtPattern       = regexp.MustCompile(`@{2,}`)

	// Stage 5: file paths without the @ prefix.
	pathMentionPattern = regexp.MustCompile(`(?i)\b(in|the|file|from|to|open|edit|fix|update|check|see|look at|modify|change|review|refactor)\s+([a-z][a-z0-9_]*(?:\s+slash\s+[a-z][a-z0-9_]*)+)\s+dot\s+(` + fileExtAlt + `)\b`)
	slashWordPattern   = regexp.MustCompile(`(?i)\s+slash\s+`)

	// Stage 6: variable/class declarations.
	variablePattern = regexp.MustCompile(`(?i)\b(variable|var|const|let)\s+([a-z]+(?:\s+[a-z]+)*)\b`)
	classPattern    = regexp.MustCompile(`(?i)\bclass\s+([a-z]+(?:\s+[a-z]+)*)\b`)

	// Stage 7: symbols.
	semicolonPattern  = regexp.MustCompile(`(?i)\bsemi\s*colon\b`)
	backslashPattern  = regexp.MustCompile(`(?i)\bback\s*slash\b`)
	slashPattern      = regexp.MustCompile(`(?i)\b(?:forward\s+)?slash\b`)
	underscorePattern = regexp.MustCompile(`(?i)\bunderscore\b`)
	hyphenPattern     = regexp.MustCompile(`(?i)\b(?:hyphen|dash)\b`)
	colonPattern      = regexp.MustCompile(`(?i)\bcolon\b`)
	arrowPattern      = regexp.MustCompile(`(?i)\b(?:fat\s+)?arrow\b`)
	equalsPattern     = regexp.MustCompile(`(?i)\b(?:equals?(?:\s+sign)?|equal\s+to)\b`)
	openParenPattern  = regexp.MustCompile(`(?i)\bopen\s*(?:paren|parenthesis|bracket)\b`)
	closeParenPattern = regexp.MustCompile(`(?i)\bclose\s*(?:paren|parenthesis|bracket)\b`)
	openBracePattern  = regexp.MustCompile(`(?i)\bopen\s*(?:brace|curly)\b`)
	closeBracePattern = regexp.MustCompile(`(?i)\bclose\s*(?:brace|curly)\b`)
	openSquarePattern = regexp.MustCompile(`(?i)\bopen\s*square(?:\s*bracket)?\b`)
	closeSquarePattern = regexp.MustCompile(`(?i)\bclose\s*square(?:\s*bracket)?\b`)

	// Stage 9: abbreviations.
	abbrevPattern = regexp.MustCompile(`(?i)\b(http|https|api|url|html|css|json|xml|sql|gui|cli|sdk|ide|dom|ajax|rest|crud|orm|mvc|jwt|oauth|ssr|csr|pwa|spa|seo|cdn|dns|ssh|ssl|tls|ftp|tcp|udp|ip|os|cpu|gpu|ram|ssd|hdd|usb|pdf|csv|svg|png|jpg|gif|mp3|mp4|avi|exe|dll|npm|yarn|pnpm|git|svn|aws|gcp|env)\b`)

	wordPattern     = regexp.MustCompile(`[A-Za-z][A-Za-z0-9]*`)
	nonSpacePattern = regexp.MustCompile(`\S+`)
)

// Process runs the full 11-stage pipeline over a raw transcript and returns
// plain text possibly containing inline "[[NAME]]" command markers.
func (p *Processor) Process(text string) string {
	result := text

	result = p.processVoiceCommands(result)
	result = p.processExplicitCasing(result)
	result = p.processFunctions(result)
	result = p.processFileMentions(result)
	result = p.processFilePaths(result)
	result = p.processVariablesAndClasses(result)
	result = p.processSymbols(result)
	result = p.fixSentenceCasing(result)
	result = p.processAbbreviations(result)
	result = p.processKeywords(result)
	result = p.cleanupWhitespace(result)

	return result
}

// processVoiceCommands is stage 1: the highest-priority stage, rewriting
// casing spans, literal punctuation/whitespace words, and editing-command
// phrases into "[[NAME]]" markers before anything else can touch them.
func (p *Processor) processVoiceCommands(text string) string {
	result := text

	result = allCapsPattern.ReplaceAllStringFunc(result, func(m string) string {
		sub := allCapsPattern.FindStringSubmatch(m)
		return strings.ToUpper(sub[1])
	})
	result = noCapsPattern.ReplaceAllStringFunc(result, func(m string) string {
		sub := noCapsPattern.FindStringSubmatch(m)
		return strings.ToLower(sub[1])
	})
	result = capWordPattern.ReplaceAllStringFunc(result, func(m string) string {
		sub := capWordPattern.FindStringSubmatch(m)
		return capitalizeFirst(sub[1])
	})

	for _, pw := range punctuationWord {
		result = pw.pattern.ReplaceAllString(result, pw.literal)
	}

	result = newlinePattern.ReplaceAllStringFunc(result, func(m string) string {
		if strings.Contains(strings.ToLower(m), "paragraph") {
			return "\n\n"
		}
		return "\n"
	})

	for _, cp := range commandPhrases {
		result = cp.pattern.ReplaceAllString(result, markerToken(cp.marker))
	}

	return result
}

func (p *Processor) processExplicitCasing(text string) string {
	result := text
	result = camelCasePattern.ReplaceAllStringFunc(result, func(m string) string {
		return toCamelCase(camelCasePattern.FindStringSubmatch(m)[1])
	})
	result = snakeCasePattern.ReplaceAllStringFunc(result, func(m string) string {
		return toSnakeCase(snakeCasePattern.FindStringSubmatch(m)[1])
	})
	result = pascalCasePattern.ReplaceAllStringFunc(result, func(m string) string {
		return toPascalCase(pascalCasePattern.FindStringSubmatch(m)[1])
	})
	result = kebabCasePattern.ReplaceAllStringFunc(result, func(m string) string {
		return toKebabCase(kebabCasePattern.FindStringSubmatch(m)[1])
	})
	result = constantCasePattern.ReplaceAllStringFunc(result, func(m string) string {
		return toConstantCase(constantCasePattern.FindStringSubmatch(m)[1])
	})
	return result
}

func (p *Processor) processFunctions(text string) string {
	return functionPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := functionPattern.FindStringSubmatch(m)
		return toCamelCase(sub[1]) + "()"
	})
}

func (p *Processor) processFileMentions(text string) string {
	result := text

	result = fileMentionPattern.ReplaceAllStringFunc(result, func(m string) string {
		sub := fileMentionPattern.FindStringSubmatch(m)
		return sub[1] + " @" + strings.ToLower(sub[2]) + "." + strings.ToLower(sub[3])
	})

	result = standaloneFilePattern.ReplaceAllStringFunc(result, func(m string) string {
		sub := standaloneFilePattern.FindStringSubmatch(m)
		return "@" + strings.ToLower(sub[1]) + "." + strings.ToLower(sub[2])
	})

	result = bareFileRefPattern.ReplaceAllStringFunc(result, func(m string) string {
		sub := bareFileRefPattern.FindStringSubmatch(m)
		return "@" + strings.ToLower(sub[1]) + "." + strings.ToLower(sub[2])
	})

	result = doubleAtPattern.ReplaceAllString(result, "@")

	return result
}

func (p *Processor) processFilePaths(text string) string {
	return pathMentionPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := pathMentionPattern.FindStringSubmatch(m)
		segments := slashWordPattern.Split(sub[2], -1)
		for i, s := range segments {
			segments[i] = strings.ToLower(strings.TrimSpace(s))
		}
		path := strings.Join(segments, "/") + "." + strings.ToLower(sub[3])
		return sub[1] + " " + path
	})
}

func (p *Processor) processVariablesAndClasses(text string) string {
	result := text
	result = variablePattern.ReplaceAllStringFunc(result, func(m string) string {
		sub := variablePattern.FindStringSubmatch(m)
		return strings.ToLower(sub[1]) + " " + toCamelCase(sub[2])
	})
	result = classPattern.ReplaceAllStringFunc(result, func(m string) string {
		sub := classPattern.FindStringSubmatch(m)
		if !strings.ContainsAny(sub[1], " \t\r\n") {
			// One already-joined name (this stage's own output) keeps its
			// inner capitals, so a second pass leaves it unchanged.
			return "class " + capitalizeFirst(sub[1])
		}
		return "class " + toPascalCase(sub[1])
	})
	return result
}

func (p *Processor) processSymbols(text string) string {
	result := text
	result = semicolonPattern.ReplaceAllString(result, ";")
	result = backslashPattern.ReplaceAllString(result, `\`)
	result = slashPattern.ReplaceAllString(result, "/")
	result = underscorePattern.ReplaceAllString(result, "_")
	result = hyphenPattern.ReplaceAllString(result, "-")
	result = colonPattern.ReplaceAllString(result, ":")
	result = arrowPattern.ReplaceAllString(result, "=>")
	result = equalsPattern.ReplaceAllString(result, "=")
	result = openParenPattern.ReplaceAllString(result, "(")
	result = closeParenPattern.ReplaceAllString(result, ")")
	result = openBracePattern.ReplaceAllString(result, "{")
	result = closeBracePattern.ReplaceAllString(result, "}")
	result = openSquarePattern.ReplaceAllString(result, "[")
	result = closeSquarePattern.ReplaceAllString(result, "]")
	result = p.processStandaloneDots(result)
	return result
}

// processStandaloneDots converts standalone "dot"/"period" words to "." but
// leaves them alone when the following word is a recognised file extension,
// since that phrase will already have been rewritten by an earlier stage
// (and if it wasn't, a dotted filename is still a better guess than a
// mid-sentence period). The whitespace between words, including newlines
// from stage 1, is kept as it is.
func (p *Processor) processStandaloneDots(text string) string {
	locs := nonSpacePattern.FindAllStringIndex(text, -1)
	var b strings.Builder
	lastEnd := 0
	for i, loc := range locs {
		b.WriteString(text[lastEnd:loc[0]])
		lastEnd = loc[1]
		word := text[loc[0]:loc[1]]
		lower := strings.ToLower(word)
		if lower == "dot" || lower == "period" {
			nextIsExt := false
			if i+1 < len(locs) {
				nextIsExt = p.fileExtensions[strings.ToLower(text[locs[i+1][0]:locs[i+1][1]])]
			}
			if nextIsExt {
				b.WriteString(word)
			} else {
				b.WriteString(".")
			}
		} else {
			b.WriteString(word)
		}
	}
	b.WriteString(text[lastEnd:])
	return b.String()
}

// fixSentenceCasing capitalises the first alphabetic character, and the
// first alphabetic character after '.', '!', or '?'. A '.' flanked by
// alphanumerics on both sides (a file extension or a decimal) is treated as
// intra-token and never triggers re-capitalisation. A word that is already a
// code identifier from an earlier stage (helloWorld, hello_world, getUser())
// is left as it is.
func (p *Processor) fixSentenceCasing(text string) string {
	runes := []rune(text)
	var b strings.Builder
	capitalizeNext := true

	for i, c := range runes {
		if capitalizeNext && isAlpha(c) {
			if !startsIdentifier(runes[i:]) {
				c = toUpperRune(c)
			}
			b.WriteRune(c)
			capitalizeNext = false
			continue
		}

		b.WriteRune(c)

		if c == '!' || c == '?' {
			capitalizeNext = true
			continue
		}
		if c == '.' {
			prevAlnum := i > 0 && isAlnum(runes[i-1])
			nextAlnum := i+1 < len(runes) && isAlnum(runes[i+1])
			if prevAlnum && nextAlnum {
				continue // intra-token: index.ts, 3.14
			}
			capitalizeNext = true
		}
	}

	return b.String()
}

// startsIdentifier reports whether the word at the start of runes has an
// inner capital, an underscore or an opening parenthesis.
func startsIdentifier(runes []rune) bool {
	for j := 1; j < len(runes) && !isSpace(runes[j]); j++ {
		if c := runes[j]; c == '_' || c == '(' || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}

func (p *Processor) processAbbreviations(text string) string {
	var b strings.Builder
	lastEnd := 0

	for _, loc := range abbrevPattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		isFileExt := start > 0 && (text[start-1] == '@' || text[start-1] == '.')

		b.WriteString(text[lastEnd:start])
		if isFileExt {
			b.WriteString(strings.ToLower(text[start:end]))
		} else {
			b.WriteString(strings.ToUpper(text[start:end]))
		}
		lastEnd = end
	}

	b.WriteString(text[lastEnd:])
	return b.String()
}

func (p *Processor) processKeywords(text string) string {
	return wordPattern.ReplaceAllStringFunc(text, func(word string) string {
		if proper, ok := p.keywords[strings.ToLower(word)]; ok {
			return proper
		}
		return word
	})
}

func (p *Processor) cleanupWhitespace(text string) string {
	var b strings.Builder
	prevWasSpace := false

	for _, c := range text {
		if c != '\n' && c != '\t' && isSpace(c) {
			if !prevWasSpace {
				b.WriteByte(' ')
				prevWasSpace = true
			}
		} else {
			b.WriteRune(c)
			prevWasSpace = false
		}
	}

	return strings.TrimSpace(b.String())
}

func isAlpha(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c rune) bool {
	return isAlpha(c) || (c >= '0' && c <= '9')
}

func isSpace(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func toUpperRune(c rune) rune {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = toUpperRune(r[0])
	return string(r)
}
