package lexer

type TokenScanner interface {
	Read() *Token
	Unread()
	HasTokens() bool
}

// SimpleTokenScanner walks a token slice that ends with an EOF token. Reading
// past the end keeps returning that EOF token.
type SimpleTokenScanner struct {
	tokens []Token

	pos int
}

func NewTokenScanner(tokens []Token) TokenScanner {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != EOF {
		tokens = append(tokens, Token{
			Kind:  EOF,
			Value: EOF.String(),
		})
	}

	return &SimpleTokenScanner{
		tokens: tokens,
	}
}

func (s *SimpleTokenScanner) Read() *Token {
	if s.pos >= len(s.tokens) {
		s.pos = len(s.tokens)
		return &s.tokens[len(s.tokens)-1]
	}

	token := &s.tokens[s.pos]
	s.pos++

	return token
}

func (s *SimpleTokenScanner) Unread() {
	if s.pos > 0 {
		s.pos--
	}
}

// HasTokens reports whether anything other than the final EOF is left.
func (s *SimpleTokenScanner) HasTokens() bool {
	return s.pos < len(s.tokens)-1
}
