package lexer

import "sort"

// TokenType represents the type of a token
type TokenType string

// Span represents the source location of a token
type Span struct {
	Filename string // optional source filename for diagnostics
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Start    int    // index in []rune of the original source
	End      int    // exclusive end index
}

// Len returns the number of runes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string // Deprecated: use Raw or Value instead. Kept for backward compatibility.
	Raw     string // exact runes from source
	Value   string // decoded value (string body without prefix and quotes, same as Raw for others)
	Span    Span   // source location information

	// String tokens only.
	Prefix string // literal prefix as written, e.g. "rb" or "F"
	Triple bool   // delimited by ''' or """

	Unterminated bool // the closing delimiter is missing
}

// IsBytes reports whether a STRING token carries a bytes prefix.
func (t Token) IsBytes() bool { return hasPrefixRune(t.Prefix, 'b') }

// IsRaw reports whether a STRING token carries a raw prefix.
func (t Token) IsRaw() bool { return hasPrefixRune(t.Prefix, 'r') }

// IsFormatted reports whether a STRING token carries an f-string prefix.
func (t Token) IsFormatted() bool { return hasPrefixRune(t.Prefix, 'f') }

func hasPrefixRune(prefix string, want rune) bool {
	for _, r := range prefix {
		if r == want || r == want-'a'+'A' {
			return true
		}
	}
	return false
}

// Token type constants
const (
	// Special tokens
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"
	NEWLINE TokenType = "NEWLINE"

	// Identifiers and literals
	IDENT  TokenType = "IDENT"  // add, foobar, x, y, ...
	NUMBER TokenType = "NUMBER" // 1343456, 3.14, 0x1f, 1e9, 2j
	STRING TokenType = "STRING" // "hello", b'\x00', f"{x}"

	// Operators
	ASSIGN      TokenType = "="
	WALRUS      TokenType = ":="
	PLUS        TokenType = "+"
	MINUS       TokenType = "-"
	ASTERISK    TokenType = "*"
	POWER       TokenType = "**"
	SLASH       TokenType = "/"
	FLOORDIV    TokenType = "//"
	PERCENT     TokenType = "%"
	AT          TokenType = "@"
	TILDE       TokenType = "~"
	AMPERSAND   TokenType = "&"
	PIPE        TokenType = "|"
	CARET       TokenType = "^"
	SHL         TokenType = "<<"
	SHR         TokenType = ">>"
	BANG        TokenType = "!"
	ARROW       TokenType = "->"
	ELLIPSIS    TokenType = "..."
	PLUS_EQ     TokenType = "+="
	MINUS_EQ    TokenType = "-="
	STAR_EQ     TokenType = "*="
	POWER_EQ    TokenType = "**="
	SLASH_EQ    TokenType = "/="
	FLOORDIV_EQ TokenType = "//="
	PERCENT_EQ  TokenType = "%="
	AT_EQ       TokenType = "@="
	AMP_EQ      TokenType = "&="
	PIPE_EQ     TokenType = "|="
	CARET_EQ    TokenType = "^="
	SHL_EQ      TokenType = "<<="
	SHR_EQ      TokenType = ">>="

	LT     TokenType = "<"
	GT     TokenType = ">"
	EQ     TokenType = "=="
	NOT_EQ TokenType = "!="
	LE     TokenType = "<="
	GE     TokenType = ">="

	// Delimiters
	COMMA     TokenType = ","
	SEMICOLON TokenType = ";"
	COLON     TokenType = ":"
	DOT       TokenType = "."

	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"

	// Keywords
	AND    TokenType = "AND"
	OR     TokenType = "OR"
	NOT    TokenType = "NOT"
	IN     TokenType = "IN"
	IS     TokenType = "IS"
	IF     TokenType = "IF"
	ELSE   TokenType = "ELSE"
	LAMBDA TokenType = "LAMBDA"
	YIELD  TokenType = "YIELD"
	FROM   TokenType = "FROM"
	AWAIT  TokenType = "AWAIT"
	ASYNC  TokenType = "ASYNC"
	DEL    TokenType = "DEL"
	FOR    TokenType = "FOR"
	NONE   TokenType = "NONE"
	TRUE   TokenType = "TRUE"
	FALSE  TokenType = "FALSE"

	// Keywords that only start compound statements; the parser rejects them.
	DEF    TokenType = "DEF"
	CLASS  TokenType = "CLASS"
	WHILE  TokenType = "WHILE"
	WITH   TokenType = "WITH"
	TRY    TokenType = "TRY"
	RETURN TokenType = "RETURN"
	IMPORT TokenType = "IMPORT"
	PASS   TokenType = "PASS"
)

var keywords = map[string]TokenType{
	"and":    AND,
	"or":     OR,
	"not":    NOT,
	"in":     IN,
	"is":     IS,
	"if":     IF,
	"else":   ELSE,
	"lambda": LAMBDA,
	"yield":  YIELD,
	"from":   FROM,
	"await":  AWAIT,
	"async":  ASYNC,
	"del":    DEL,
	"for":    FOR,
	"None":   NONE,
	"True":   TRUE,
	"False":  FALSE,
	"def":    DEF,
	"class":  CLASS,
	"while":  WHILE,
	"with":   WITH,
	"try":    TRY,
	"return": RETURN,
	"import": IMPORT,
	"pass":   PASS,
}

// augmented maps an augmented assignment token to its binary operator.
var augmented = map[TokenType]TokenType{
	PLUS_EQ:     PLUS,
	MINUS_EQ:    MINUS,
	STAR_EQ:     ASTERISK,
	POWER_EQ:    POWER,
	SLASH_EQ:    SLASH,
	FLOORDIV_EQ: FLOORDIV,
	PERCENT_EQ:  PERCENT,
	AT_EQ:       AT,
	AMP_EQ:      AMPERSAND,
	PIPE_EQ:     PIPE,
	CARET_EQ:    CARET,
	SHL_EQ:      SHL,
	SHR_EQ:      SHR,
}

// LookupIdent checks if the identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// AugmentedOperator returns the binary operator behind an augmented
// assignment token such as "+=".
func AugmentedOperator(tt TokenType) (TokenType, bool) {
	op, ok := augmented[tt]
	return op, ok
}

// IsKeyword reports whether tt is a reserved word.
func IsKeyword(tt TokenType) bool {
	for _, kw := range keywords {
		if kw == tt {
			return true
		}
	}
	return false
}

// Keywords returns the reserved words in sorted order.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for word := range keywords {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}
