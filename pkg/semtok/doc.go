/*
Package semtok projects the lexer output onto semantic tokens for editors.

Architecture:
------------

	AsciiDoc Text                 Editor
	     |                            ^
	     v                            |
	+----------+    tokens     +-------------+
	|  @lexer  | -----------> |   @semtok   |
	+----------+              +-------------+
	                                |
	                          +-----+------+
	                          |            |
	                     Full File    Range-based
	                     Tokens      Tokens

Lexer -> Semantic Token Mapping:

	Lexer Token                     ->   Semantic Token
	-----------                          --------------
	ATTRIBUTE_NAME                  ->   variable (declaration)
	ATTRIBUTE_REF                   ->   variable
	ATTRIBUTE_VAL, ATTR_VALUE       ->   string
	ATTR_NAME                       ->   property
	HEADING_MARKER, ADMONITION      ->   keyword
	HEADING_TEXT                    ->   heading
	BLOCKID                         ->   label (declaration)
	REF                             ->   label
	*_MACRO_ID                      ->   function
	*_MACRO_BODY, URL_*             ->   string
	LINE_COMMENT, BLOCK_COMMENT     ->   comment
	CALLOUT                         ->   number
	markup punctuation              ->   operator

Plain text, whitespace and verbatim content produce no tokens. Tokens never
span a line break: multi-line lexer tokens are split per line.
*/
package semtok
