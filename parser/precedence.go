package parser

import "github.com/deepnoodle-ai/canvasbox/internal/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	ASSIGN      // = += -= ...
	TERNARY     // ? :
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	BIT_OR      // |
	BIT_XOR     // ^
	BIT_AND     // &
	EQUALS      // == != === !==
	LESSGREATER // < > <= >= in instanceof
	SHIFT       // << >> >>>
	SUM         // + -
	PRODUCT     // * / %
	POWER       // **
	PREFIX      // -X !X typeof X
	POSTFIX     // X++ X--
	CALL        // fn(X)
	INDEX       // obj[key] obj.key
	HIGHEST
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.QUESTION:      TERNARY,
	token.ARROW:         ASSIGN,
	token.OR:            LOGICAL_OR,
	token.AND:           LOGICAL_AND,
	token.BITOR:         BIT_OR,
	token.CARET:         BIT_XOR,
	token.AMPERSAND:     BIT_AND,
	token.EQ:            EQUALS,
	token.NOT_EQ:        EQUALS,
	token.EQ_STRICT:     EQUALS,
	token.NOT_EQ_STRICT: EQUALS,
	token.LT:            LESSGREATER,
	token.LT_EQUALS:     LESSGREATER,
	token.GT:            LESSGREATER,
	token.GT_EQUALS:     LESSGREATER,
	token.IN:            LESSGREATER,
	token.INSTANCEOF:    LESSGREATER,
	token.LT_LT:         SHIFT,
	token.GT_GT:         SHIFT,
	token.GT_GT_GT:      SHIFT,
	token.PLUS:          SUM,
	token.MINUS:         SUM,
	token.ASTERISK:      PRODUCT,
	token.SLASH:         PRODUCT,
	token.MOD:           PRODUCT,
	token.POW:           POWER,
	token.LPAREN:        CALL,
	token.PERIOD:        INDEX,
	token.LBRACKET:      INDEX,
}

// assignOperators lists every token that forms an assignment expression.
var assignOperators = map[token.Type]bool{
	token.ASSIGN:           true,
	token.PLUS_EQUALS:      true,
	token.MINUS_EQUALS:     true,
	token.ASTERISK_EQUALS:  true,
	token.SLASH_EQUALS:     true,
	token.MOD_EQUALS:       true,
	token.POW_EQUALS:       true,
	token.LT_LT_EQUALS:     true,
	token.GT_GT_EQUALS:     true,
	token.GT_GT_GT_EQUALS:  true,
	token.AMPERSAND_EQUALS: true,
	token.BITOR_EQUALS:     true,
	token.CARET_EQUALS:     true,
	token.AND_EQUALS:       true,
	token.OR_EQUALS:        true,
}

func init() {
	for t := range assignOperators {
		precedences[t] = ASSIGN
	}
}
