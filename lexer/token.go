package lexer

import (
	"fmt"

	"github.com/wudi/php-parser/source"
)

// TokenType 表示 PHP Token 类型，与 PHP 官方保持一致。
// 枚举值是公开契约：新增类型向后兼容，改变已有值不兼容。
type TokenType int32

// Token 表示一个词法单元。Token 不携带文本：标识符和字面量的内容
// 通过 Span 从源缓冲区恢复，使 Token 不超过 16 字节（当前布局为 12 字节）。
type Token struct {
	Type TokenType   // Token 类型
	Span source.Span // 源区间
}

// Text 返回 Token 覆盖的源字节
func (t Token) Text(src *source.Source) []byte {
	return src.Slice(t.Span)
}

// String 返回 Token 的字符串表示
func (t Token) String() string {
	return fmt.Sprintf("Token{Type: %s, Span: %s}", t.Type, t.Span)
}

// PHP Token 类型常量，与 PHP 8.4 官方保持一致
const (
	// 特殊 Token
	T_UNKNOWN TokenType = iota
	T_EOF
	T_ERROR TokenType = 3 // 词法错误占位（如非法数字字面量）

	// PHP 官方 Token 常量（按 PHP 源码中的值）
	T_LNUMBER                  TokenType = 260 // 整数
	T_DNUMBER                  TokenType = 261 // 浮点数
	T_STRING                   TokenType = 262 // 标识符
	T_NAME_FULLY_QUALIFIED     TokenType = 263 // \Foo\Bar
	T_NAME_RELATIVE            TokenType = 264 // namespace\Foo\Bar
	T_NAME_QUALIFIED           TokenType = 265 // Foo\Bar
	T_VARIABLE                 TokenType = 266 // $var
	T_INLINE_HTML              TokenType = 267 // HTML 代码
	T_ENCAPSED_AND_WHITESPACE  TokenType = 268 // 字符串中的内容
	T_CONSTANT_ENCAPSED_STRING TokenType = 269 // 字符串常量
	T_STRING_VARNAME           TokenType = 270 // 字符串中的变量名
	T_NUM_STRING               TokenType = 271 // 数字字符串

	// 语言结构
	T_INCLUDE      TokenType = 272
	T_INCLUDE_ONCE TokenType = 273
	T_EVAL         TokenType = 274
	T_REQUIRE      TokenType = 275
	T_REQUIRE_ONCE TokenType = 276

	// 逻辑操作符
	T_LOGICAL_OR  TokenType = 277 // or
	T_LOGICAL_XOR TokenType = 278 // xor
	T_LOGICAL_AND TokenType = 279 // and
	T_PRINT       TokenType = 280

	// 生成器
	T_YIELD      TokenType = 281
	T_YIELD_FROM TokenType = 282

	// 类型检查
	T_INSTANCEOF TokenType = 283

	// 对象操作
	T_NEW   TokenType = 284
	T_CLONE TokenType = 285

	// 退出
	T_EXIT TokenType = 286

	// 控制结构
	T_IF         TokenType = 287
	T_ELSEIF     TokenType = 288
	T_ELSE       TokenType = 289
	T_ENDIF      TokenType = 290
	T_ECHO       TokenType = 291
	T_DO         TokenType = 292
	T_WHILE      TokenType = 293
	T_ENDWHILE   TokenType = 294
	T_FOR        TokenType = 295
	T_ENDFOR     TokenType = 296
	T_FOREACH    TokenType = 297
	T_ENDFOREACH TokenType = 298
	T_DECLARE    TokenType = 299
	T_ENDDECLARE TokenType = 300
	T_AS         TokenType = 301
	T_SWITCH     TokenType = 302
	T_ENDSWITCH  TokenType = 303
	T_CASE       TokenType = 304
	T_DEFAULT    TokenType = 305
	T_MATCH      TokenType = 306
	T_BREAK      TokenType = 307
	T_CONTINUE   TokenType = 308
	T_GOTO       TokenType = 309
	T_FUNCTION   TokenType = 310
	T_FN         TokenType = 311
	T_CONST      TokenType = 312
	T_RETURN     TokenType = 313
	T_TRY        TokenType = 314
	T_CATCH      TokenType = 315
	T_FINALLY    TokenType = 316
	T_THROW      TokenType = 317
	T_USE        TokenType = 318
	T_INSTEADOF  TokenType = 319
	T_GLOBAL     TokenType = 320
	T_STATIC     TokenType = 321
	T_ABSTRACT   TokenType = 322
	T_FINAL      TokenType = 323
	T_PRIVATE    TokenType = 324
	T_PROTECTED  TokenType = 325
	T_PUBLIC     TokenType = 326
	// 新的可见性修饰符 (PHP 8.4)
	T_PRIVATE_SET   TokenType = 327 // private(set)
	T_PROTECTED_SET TokenType = 328 // protected(set)
	T_PUBLIC_SET    TokenType = 329 // public(set)
	T_READONLY      TokenType = 330
	T_VAR           TokenType = 331

	// 类相关
	T_UNSET         TokenType = 332
	T_ISSET         TokenType = 333
	T_EMPTY         TokenType = 334
	T_HALT_COMPILER TokenType = 335
	T_CLASS         TokenType = 336
	T_TRAIT         TokenType = 337
	T_INTERFACE     TokenType = 338
	T_ENUM          TokenType = 339
	T_EXTENDS       TokenType = 340
	T_IMPLEMENTS    TokenType = 341
	T_LIST          TokenType = 342
	T_ARRAY         TokenType = 343

	// 魔术常量
	T_CALLABLE   TokenType = 344
	T_LINE       TokenType = 345 // __LINE__
	T_FILE       TokenType = 346 // __FILE__
	T_DIR        TokenType = 347 // __DIR__
	T_CLASS_C    TokenType = 348 // __CLASS__
	T_TRAIT_C    TokenType = 349 // __TRAIT__
	T_METHOD_C   TokenType = 350 // __METHOD__
	T_FUNC_C     TokenType = 351 // __FUNCTION__
	T_NS_C       TokenType = 352 // __NAMESPACE__
	T_PROPERTY_C TokenType = 353 // __PROPERTY__ (PHP 8.4)

	// 注释
	T_COMMENT     TokenType = 354
	T_DOC_COMMENT TokenType = 355

	// 开放和关闭标签
	T_OPEN_TAG           TokenType = 356 // <?php
	T_OPEN_TAG_WITH_ECHO TokenType = 357 // <?=
	T_CLOSE_TAG          TokenType = 358 // ?>

	// 空白字符与字符串结构
	T_WHITESPACE               TokenType = 359
	T_START_HEREDOC            TokenType = 360
	T_END_HEREDOC              TokenType = 361
	T_DOLLAR_OPEN_CURLY_BRACES TokenType = 362 // ${
	T_CURLY_OPEN               TokenType = 363 // {$

	// 命名空间
	T_PAAMAYIM_NEKUDOTAYIM TokenType = 364 // ::
	T_NAMESPACE            TokenType = 365
	T_NS_SEPARATOR         TokenType = 366 // \

	// 展开
	T_ELLIPSIS TokenType = 367 // ...

	// 比较操作符
	T_IS_EQUAL            TokenType = 368 // ==
	T_IS_NOT_EQUAL        TokenType = 369 // != 和 <>
	T_IS_IDENTICAL        TokenType = 370 // ===
	T_IS_NOT_IDENTICAL    TokenType = 371 // !==
	T_IS_SMALLER_OR_EQUAL TokenType = 372 // <=
	T_IS_GREATER_OR_EQUAL TokenType = 373 // >=
	T_SPACESHIP           TokenType = 374 // <=>

	// 赋值操作符
	T_PLUS_EQUAL     TokenType = 375 // +=
	T_MINUS_EQUAL    TokenType = 376 // -=
	T_MUL_EQUAL      TokenType = 377 // *=
	T_DIV_EQUAL      TokenType = 378 // /=
	T_CONCAT_EQUAL   TokenType = 379 // .=
	T_MOD_EQUAL      TokenType = 380 // %=
	T_AND_EQUAL      TokenType = 381 // &=
	T_OR_EQUAL       TokenType = 382 // |=
	T_XOR_EQUAL      TokenType = 383 // ^=
	T_SL_EQUAL       TokenType = 384 // <<=
	T_SR_EQUAL       TokenType = 385 // >>=
	T_COALESCE_EQUAL TokenType = 386 // ??=

	// 增减操作符
	T_INC TokenType = 387 // ++
	T_DEC TokenType = 388 // --

	// 对象操作符
	T_OBJECT_OPERATOR          TokenType = 389 // ->
	T_NULLSAFE_OBJECT_OPERATOR TokenType = 390 // ?->
	T_DOUBLE_ARROW             TokenType = 391 // =>

	// 布尔操作符
	T_BOOLEAN_OR  TokenType = 392 // ||
	T_BOOLEAN_AND TokenType = 393 // &&

	// NULL 合并
	T_COALESCE TokenType = 394 // ??

	// 位移操作符
	T_SL TokenType = 395 // <<
	T_SR TokenType = 396 // >>

	// 属性
	T_ATTRIBUTE TokenType = 397 // #[

	// 类型转换
	T_INT_CAST    TokenType = 398 // (int)
	T_DOUBLE_CAST TokenType = 399 // (double)
	T_STRING_CAST TokenType = 400 // (string)
	T_ARRAY_CAST  TokenType = 401 // (array)
	T_OBJECT_CAST TokenType = 402 // (object)
	T_BOOL_CAST   TokenType = 403 // (bool)
	T_UNSET_CAST  TokenType = 404 // (unset)
	T_VOID_CAST   TokenType = 405 // (void) - PHP 8.4

	// 幂操作符
	T_POW       TokenType = 406 // **
	T_POW_EQUAL TokenType = 407 // **=

	// 上下文敏感的 & 操作符
	T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG     TokenType = 408
	T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG TokenType = 409

	// Nowdoc 支持
	T_NOWDOC TokenType = 410 // <<<'IDENTIFIER'

	// 管道操作符 (PHP 8.4)
	T_PIPE TokenType = 411 // |>

	// 其他
	T_BAD_CHARACTER TokenType = 412
	T_CLOSE_TAG_ALT TokenType = 413 // 替代关闭标签

	// 属性钩子 (Property Hooks) - PHP 8.4
	T_GET TokenType = 414
	T_SET TokenType = 415

	// 反引号命令执行
	T_BACKQUOTE TokenType = 416 // `

	// 管道赋值 (PHP 8.4)
	T_PIPE_EQUAL TokenType = 417 // |>=

	// 单个字符 token（为了完整性）
	TOKEN_SEMICOLON   TokenType = 1000 + ';'  // ;
	TOKEN_COMMA       TokenType = 1000 + ','  // ,
	TOKEN_DOT         TokenType = 1000 + '.'  // .
	TOKEN_LBRACE      TokenType = 1000 + '{'  // {
	TOKEN_RBRACE      TokenType = 1000 + '}'  // }
	TOKEN_LPAREN      TokenType = 1000 + '('  // (
	TOKEN_RPAREN      TokenType = 1000 + ')'  // )
	TOKEN_LBRACKET    TokenType = 1000 + '['  // [
	TOKEN_RBRACKET    TokenType = 1000 + ']'  // ]
	TOKEN_PLUS        TokenType = 1000 + '+'  // +
	TOKEN_MINUS       TokenType = 1000 + '-'  // -
	TOKEN_MULTIPLY    TokenType = 1000 + '*'  // *
	TOKEN_DIVIDE      TokenType = 1000 + '/'  // /
	TOKEN_MODULO      TokenType = 1000 + '%'  // %
	TOKEN_AMPERSAND   TokenType = 1000 + '&'  // &
	TOKEN_PIPE        TokenType = 1000 + '|'  // |
	TOKEN_CARET       TokenType = 1000 + '^'  // ^
	TOKEN_TILDE       TokenType = 1000 + '~'  // ~
	TOKEN_LT          TokenType = 1000 + '<'  // <
	TOKEN_GT          TokenType = 1000 + '>'  // >
	TOKEN_EQUAL       TokenType = 1000 + '='  // =
	TOKEN_EXCLAMATION TokenType = 1000 + '!'  // !
	TOKEN_QUESTION    TokenType = 1000 + '?'  // ?
	TOKEN_COLON       TokenType = 1000 + ':'  // :
	TOKEN_AT          TokenType = 1000 + '@'  // @
	TOKEN_DOLLAR      TokenType = 1000 + '$'  // $
	TOKEN_BACKSLASH   TokenType = 1000 + '\\' // \
	TOKEN_QUOTE       TokenType = 1000 + '"'  // "
)

// TokenNames 提供 Token 类型到名称的映射
var TokenNames = map[TokenType]string{
	T_UNKNOWN:                             "T_UNKNOWN",
	T_EOF:                                 "T_EOF",
	T_ERROR:                               "T_ERROR",
	T_LNUMBER:                             "T_LNUMBER",
	T_DNUMBER:                             "T_DNUMBER",
	T_STRING:                              "T_STRING",
	T_NAME_FULLY_QUALIFIED:                "T_NAME_FULLY_QUALIFIED",
	T_NAME_RELATIVE:                       "T_NAME_RELATIVE",
	T_NAME_QUALIFIED:                      "T_NAME_QUALIFIED",
	T_VARIABLE:                            "T_VARIABLE",
	T_INLINE_HTML:                         "T_INLINE_HTML",
	T_ENCAPSED_AND_WHITESPACE:             "T_ENCAPSED_AND_WHITESPACE",
	T_CONSTANT_ENCAPSED_STRING:            "T_CONSTANT_ENCAPSED_STRING",
	T_STRING_VARNAME:                      "T_STRING_VARNAME",
	T_NUM_STRING:                          "T_NUM_STRING",
	T_INCLUDE:                             "T_INCLUDE",
	T_INCLUDE_ONCE:                        "T_INCLUDE_ONCE",
	T_EVAL:                                "T_EVAL",
	T_REQUIRE:                             "T_REQUIRE",
	T_REQUIRE_ONCE:                        "T_REQUIRE_ONCE",
	T_LOGICAL_OR:                          "T_LOGICAL_OR",
	T_LOGICAL_XOR:                         "T_LOGICAL_XOR",
	T_LOGICAL_AND:                         "T_LOGICAL_AND",
	T_PRINT:                               "T_PRINT",
	T_YIELD:                               "T_YIELD",
	T_YIELD_FROM:                          "T_YIELD_FROM",
	T_INSTANCEOF:                          "T_INSTANCEOF",
	T_NEW:                                 "T_NEW",
	T_CLONE:                               "T_CLONE",
	T_EXIT:                                "T_EXIT",
	T_IF:                                  "T_IF",
	T_ELSEIF:                              "T_ELSEIF",
	T_ELSE:                                "T_ELSE",
	T_ENDIF:                               "T_ENDIF",
	T_ECHO:                                "T_ECHO",
	T_DO:                                  "T_DO",
	T_WHILE:                               "T_WHILE",
	T_ENDWHILE:                            "T_ENDWHILE",
	T_FOR:                                 "T_FOR",
	T_ENDFOR:                              "T_ENDFOR",
	T_FOREACH:                             "T_FOREACH",
	T_ENDFOREACH:                          "T_ENDFOREACH",
	T_DECLARE:                             "T_DECLARE",
	T_ENDDECLARE:                          "T_ENDDECLARE",
	T_AS:                                  "T_AS",
	T_SWITCH:                              "T_SWITCH",
	T_ENDSWITCH:                           "T_ENDSWITCH",
	T_CASE:                                "T_CASE",
	T_DEFAULT:                             "T_DEFAULT",
	T_MATCH:                               "T_MATCH",
	T_BREAK:                               "T_BREAK",
	T_CONTINUE:                            "T_CONTINUE",
	T_GOTO:                                "T_GOTO",
	T_FUNCTION:                            "T_FUNCTION",
	T_FN:                                  "T_FN",
	T_CONST:                               "T_CONST",
	T_RETURN:                              "T_RETURN",
	T_TRY:                                 "T_TRY",
	T_CATCH:                               "T_CATCH",
	T_FINALLY:                             "T_FINALLY",
	T_THROW:                               "T_THROW",
	T_USE:                                 "T_USE",
	T_INSTEADOF:                           "T_INSTEADOF",
	T_GLOBAL:                              "T_GLOBAL",
	T_STATIC:                              "T_STATIC",
	T_ABSTRACT:                            "T_ABSTRACT",
	T_FINAL:                               "T_FINAL",
	T_PRIVATE:                             "T_PRIVATE",
	T_PROTECTED:                           "T_PROTECTED",
	T_PUBLIC:                              "T_PUBLIC",
	T_PRIVATE_SET:                         "T_PRIVATE_SET",
	T_PROTECTED_SET:                       "T_PROTECTED_SET",
	T_PUBLIC_SET:                          "T_PUBLIC_SET",
	T_READONLY:                            "T_READONLY",
	T_VAR:                                 "T_VAR",
	T_UNSET:                               "T_UNSET",
	T_ISSET:                               "T_ISSET",
	T_EMPTY:                               "T_EMPTY",
	T_HALT_COMPILER:                       "T_HALT_COMPILER",
	T_CLASS:                               "T_CLASS",
	T_TRAIT:                               "T_TRAIT",
	T_INTERFACE:                           "T_INTERFACE",
	T_ENUM:                                "T_ENUM",
	T_EXTENDS:                             "T_EXTENDS",
	T_IMPLEMENTS:                          "T_IMPLEMENTS",
	T_OBJECT_OPERATOR:                     "T_OBJECT_OPERATOR",
	T_NULLSAFE_OBJECT_OPERATOR:            "T_NULLSAFE_OBJECT_OPERATOR",
	T_DOUBLE_ARROW:                        "T_DOUBLE_ARROW",
	T_LIST:                                "T_LIST",
	T_ARRAY:                               "T_ARRAY",
	T_CALLABLE:                            "T_CALLABLE",
	T_LINE:                                "T_LINE",
	T_FILE:                                "T_FILE",
	T_DIR:                                 "T_DIR",
	T_CLASS_C:                             "T_CLASS_C",
	T_TRAIT_C:                             "T_TRAIT_C",
	T_METHOD_C:                            "T_METHOD_C",
	T_FUNC_C:                              "T_FUNC_C",
	T_NS_C:                                "T_NS_C",
	T_PROPERTY_C:                          "T_PROPERTY_C",
	T_COMMENT:                             "T_COMMENT",
	T_DOC_COMMENT:                         "T_DOC_COMMENT",
	T_OPEN_TAG:                            "T_OPEN_TAG",
	T_OPEN_TAG_WITH_ECHO:                  "T_OPEN_TAG_WITH_ECHO",
	T_CLOSE_TAG:                           "T_CLOSE_TAG",
	T_WHITESPACE:                          "T_WHITESPACE",
	T_START_HEREDOC:                       "T_START_HEREDOC",
	T_END_HEREDOC:                         "T_END_HEREDOC",
	T_DOLLAR_OPEN_CURLY_BRACES:            "T_DOLLAR_OPEN_CURLY_BRACES",
	T_CURLY_OPEN:                          "T_CURLY_OPEN",
	T_PAAMAYIM_NEKUDOTAYIM:                "T_PAAMAYIM_NEKUDOTAYIM",
	T_NAMESPACE:                           "T_NAMESPACE",
	T_NS_SEPARATOR:                        "T_NS_SEPARATOR",
	T_ELLIPSIS:                            "T_ELLIPSIS",
	T_IS_EQUAL:                            "T_IS_EQUAL",
	T_IS_NOT_EQUAL:                        "T_IS_NOT_EQUAL",
	T_IS_IDENTICAL:                        "T_IS_IDENTICAL",
	T_IS_NOT_IDENTICAL:                    "T_IS_NOT_IDENTICAL",
	T_IS_SMALLER_OR_EQUAL:                 "T_IS_SMALLER_OR_EQUAL",
	T_IS_GREATER_OR_EQUAL:                 "T_IS_GREATER_OR_EQUAL",
	T_SPACESHIP:                           "T_SPACESHIP",
	T_PLUS_EQUAL:                          "T_PLUS_EQUAL",
	T_MINUS_EQUAL:                         "T_MINUS_EQUAL",
	T_MUL_EQUAL:                           "T_MUL_EQUAL",
	T_DIV_EQUAL:                           "T_DIV_EQUAL",
	T_CONCAT_EQUAL:                        "T_CONCAT_EQUAL",
	T_MOD_EQUAL:                           "T_MOD_EQUAL",
	T_AND_EQUAL:                           "T_AND_EQUAL",
	T_OR_EQUAL:                            "T_OR_EQUAL",
	T_XOR_EQUAL:                           "T_XOR_EQUAL",
	T_SL_EQUAL:                            "T_SL_EQUAL",
	T_SR_EQUAL:                            "T_SR_EQUAL",
	T_COALESCE_EQUAL:                      "T_COALESCE_EQUAL",
	T_INC:                                 "T_INC",
	T_DEC:                                 "T_DEC",
	T_BOOLEAN_OR:                          "T_BOOLEAN_OR",
	T_BOOLEAN_AND:                         "T_BOOLEAN_AND",
	T_COALESCE:                            "T_COALESCE",
	T_SL:                                  "T_SL",
	T_SR:                                  "T_SR",
	T_ATTRIBUTE:                           "T_ATTRIBUTE",
	T_INT_CAST:                            "T_INT_CAST",
	T_DOUBLE_CAST:                         "T_DOUBLE_CAST",
	T_STRING_CAST:                         "T_STRING_CAST",
	T_ARRAY_CAST:                          "T_ARRAY_CAST",
	T_OBJECT_CAST:                         "T_OBJECT_CAST",
	T_BOOL_CAST:                           "T_BOOL_CAST",
	T_UNSET_CAST:                          "T_UNSET_CAST",
	T_VOID_CAST:                           "T_VOID_CAST",
	T_POW:                                 "T_POW",
	T_POW_EQUAL:                           "T_POW_EQUAL",
	T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG: "T_AMPERSAND_FOLLOWED_BY_VAR_OR_VARARG",
	T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG: "T_AMPERSAND_NOT_FOLLOWED_BY_VAR_OR_VARARG",
	T_NOWDOC:        "T_NOWDOC",
	T_PIPE:          "T_PIPE",
	T_BAD_CHARACTER: "T_BAD_CHARACTER",
	T_CLOSE_TAG_ALT: "T_CLOSE_TAG_ALT",
	T_GET:           "T_GET",
	T_SET:           "T_SET",
	T_BACKQUOTE:     "T_BACKQUOTE",
	T_PIPE_EQUAL:    "T_PIPE_EQUAL",

	// 单字符 token
	TOKEN_SEMICOLON:   ";",
	TOKEN_COMMA:       ",",
	TOKEN_DOT:         ".",
	TOKEN_LBRACE:      "{",
	TOKEN_RBRACE:      "}",
	TOKEN_LPAREN:      "(",
	TOKEN_RPAREN:      ")",
	TOKEN_LBRACKET:    "[",
	TOKEN_RBRACKET:    "]",
	TOKEN_PLUS:        "+",
	TOKEN_MINUS:       "-",
	TOKEN_MULTIPLY:    "*",
	TOKEN_DIVIDE:      "/",
	TOKEN_MODULO:      "%",
	TOKEN_AMPERSAND:   "&",
	TOKEN_PIPE:        "|",
	TOKEN_CARET:       "^",
	TOKEN_TILDE:       "~",
	TOKEN_LT:          "<",
	TOKEN_GT:          ">",
	TOKEN_EQUAL:       "=",
	TOKEN_EXCLAMATION: "!",
	TOKEN_QUESTION:    "?",
	TOKEN_COLON:       ":",
	TOKEN_AT:          "@",
	TOKEN_DOLLAR:      "$",
	TOKEN_BACKSLASH:   "\\",
	TOKEN_QUOTE:       "\"",
}

// KeywordClass 区分保留字、半保留字和上下文关键字。半保留字可以
// 作为类成员名出现；上下文关键字在任何位置都可以作为普通标识符。
type KeywordClass uint8

const (
	KeywordReserved KeywordClass = iota
	KeywordSemiReserved
	KeywordContext
)

// KeywordInfo 描述一个关键字条目
type KeywordInfo struct {
	Type  TokenType
	Class KeywordClass
}

// Keywords 定义 PHP 关键字到 Token 类型的映射（键为小写，查询前
// 先做 ASCII 大小写折叠）
var Keywords = map[string]KeywordInfo{
	"include":         {T_INCLUDE, KeywordReserved},
	"include_once":    {T_INCLUDE_ONCE, KeywordReserved},
	"eval":            {T_EVAL, KeywordReserved},
	"require":         {T_REQUIRE, KeywordReserved},
	"require_once":    {T_REQUIRE_ONCE, KeywordReserved},
	"or":              {T_LOGICAL_OR, KeywordReserved},
	"xor":             {T_LOGICAL_XOR, KeywordReserved},
	"and":             {T_LOGICAL_AND, KeywordReserved},
	"print":           {T_PRINT, KeywordReserved},
	"yield":           {T_YIELD, KeywordReserved},
	"instanceof":      {T_INSTANCEOF, KeywordReserved},
	"new":             {T_NEW, KeywordReserved},
	"clone":           {T_CLONE, KeywordReserved},
	"exit":            {T_EXIT, KeywordReserved},
	"die":             {T_EXIT, KeywordReserved},
	"if":              {T_IF, KeywordReserved},
	"elseif":          {T_ELSEIF, KeywordReserved},
	"else":            {T_ELSE, KeywordReserved},
	"endif":           {T_ENDIF, KeywordReserved},
	"echo":            {T_ECHO, KeywordReserved},
	"do":              {T_DO, KeywordReserved},
	"while":           {T_WHILE, KeywordReserved},
	"endwhile":        {T_ENDWHILE, KeywordReserved},
	"for":             {T_FOR, KeywordReserved},
	"endfor":          {T_ENDFOR, KeywordReserved},
	"foreach":         {T_FOREACH, KeywordReserved},
	"endforeach":      {T_ENDFOREACH, KeywordReserved},
	"declare":         {T_DECLARE, KeywordReserved},
	"enddeclare":      {T_ENDDECLARE, KeywordReserved},
	"as":              {T_AS, KeywordReserved},
	"switch":          {T_SWITCH, KeywordReserved},
	"endswitch":       {T_ENDSWITCH, KeywordReserved},
	"case":            {T_CASE, KeywordReserved},
	"default":         {T_DEFAULT, KeywordReserved},
	"match":           {T_MATCH, KeywordContext},
	"break":           {T_BREAK, KeywordReserved},
	"continue":        {T_CONTINUE, KeywordReserved},
	"goto":            {T_GOTO, KeywordReserved},
	"function":        {T_FUNCTION, KeywordReserved},
	"fn":              {T_FN, KeywordReserved},
	"const":           {T_CONST, KeywordReserved},
	"return":          {T_RETURN, KeywordReserved},
	"try":             {T_TRY, KeywordReserved},
	"catch":           {T_CATCH, KeywordReserved},
	"finally":         {T_FINALLY, KeywordReserved},
	"throw":           {T_THROW, KeywordReserved},
	"use":             {T_USE, KeywordReserved},
	"insteadof":       {T_INSTEADOF, KeywordReserved},
	"global":          {T_GLOBAL, KeywordReserved},
	"static":          {T_STATIC, KeywordReserved},
	"abstract":        {T_ABSTRACT, KeywordReserved},
	"final":           {T_FINAL, KeywordReserved},
	"private":         {T_PRIVATE, KeywordReserved},
	"protected":       {T_PROTECTED, KeywordReserved},
	"public":          {T_PUBLIC, KeywordReserved},
	"readonly":        {T_READONLY, KeywordContext},
	"var":             {T_VAR, KeywordReserved},
	"unset":           {T_UNSET, KeywordReserved},
	"isset":           {T_ISSET, KeywordReserved},
	"empty":           {T_EMPTY, KeywordReserved},
	"class":           {T_CLASS, KeywordReserved},
	"trait":           {T_TRAIT, KeywordReserved},
	"interface":       {T_INTERFACE, KeywordReserved},
	"enum":            {T_ENUM, KeywordContext},
	"extends":         {T_EXTENDS, KeywordReserved},
	"implements":      {T_IMPLEMENTS, KeywordReserved},
	"list":            {T_LIST, KeywordReserved},
	"array":           {T_ARRAY, KeywordReserved},
	"callable":        {T_CALLABLE, KeywordReserved},
	"namespace":       {T_NAMESPACE, KeywordReserved},
	"__halt_compiler": {T_HALT_COMPILER, KeywordReserved},

	// 魔术常量
	"__line__":      {T_LINE, KeywordReserved},
	"__file__":      {T_FILE, KeywordReserved},
	"__dir__":       {T_DIR, KeywordReserved},
	"__class__":     {T_CLASS_C, KeywordReserved},
	"__trait__":     {T_TRAIT_C, KeywordReserved},
	"__method__":    {T_METHOD_C, KeywordReserved},
	"__function__":  {T_FUNC_C, KeywordReserved},
	"__namespace__": {T_NS_C, KeywordReserved},
	"__property__":  {T_PROPERTY_C, KeywordReserved},

	// 属性钩子关键字 (Property Hooks) - PHP 8.4
	"get": {T_GET, KeywordContext},
	"set": {T_SET, KeywordContext},
}

// maxKeywordLen 是关键字表中最长条目的长度（__halt_compiler）
const maxKeywordLen = 15

// LookupKeyword 对标识符字节做 ASCII 大小写折叠后查询关键字表。
// 非 ASCII 字节按原样比较，与 PHP 的行为一致。
func LookupKeyword(ident []byte) (KeywordInfo, bool) {
	if len(ident) > maxKeywordLen {
		return KeywordInfo{}, false
	}
	var buf [maxKeywordLen]byte
	for i := 0; i < len(ident); i++ {
		b := ident[i]
		if b >= 'A' && b <= 'Z' {
			b += 'a' - 'A'
		}
		buf[i] = b
	}
	info, ok := Keywords[string(buf[:len(ident)])]
	return info, ok
}

// IsMagicConstant 检查 Token 类型是否为九个魔术常量之一
func IsMagicConstant(t TokenType) bool {
	switch t {
	case T_LINE, T_FILE, T_DIR, T_CLASS_C, T_TRAIT_C, T_METHOD_C,
		T_FUNC_C, T_NS_C, T_PROPERTY_C:
		return true
	}
	return false
}

// IsVisibility 检查 t 是否为普通可见性修饰符
func IsVisibility(t TokenType) bool {
	return t == T_PUBLIC || t == T_PROTECTED || t == T_PRIVATE
}

// IsSetVisibility 检查 t 是否为非对称可见性修饰符 (PHP 8.4)
func IsSetVisibility(t TokenType) bool {
	return t == T_PUBLIC_SET || t == T_PROTECTED_SET || t == T_PRIVATE_SET
}

// IsModifier 检查 t 是否为类成员修饰符
func IsModifier(t TokenType) bool {
	switch t {
	case T_PUBLIC, T_PROTECTED, T_PRIVATE,
		T_PUBLIC_SET, T_PROTECTED_SET, T_PRIVATE_SET,
		T_STATIC, T_READONLY, T_ABSTRACT, T_FINAL, T_VAR:
		return true
	}
	return false
}

// CanBeMemberName 检查关键字 token 是否可以作为类成员名出现。
// 除了少数结构性 token，PHP 的半保留字规则允许几乎所有词形
// 关键字用作方法名、常量名和属性名。
func CanBeMemberName(t TokenType) bool {
	if t == T_STRING {
		return true
	}
	if IsMagicConstant(t) {
		return true
	}
	if t >= T_INCLUDE && t <= T_PROPERTY_C {
		return true
	}
	return t == T_NAMESPACE || t == T_GET || t == T_SET
}

// String 返回 TokenType 的字符串表示
func (t TokenType) String() string {
	if name, ok := TokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", t)
}
