package llm

import (
	"fmt"
	"strings"
)

// PromptBuilder constructs the instruction texts for docstring generation and
// docstring merging.
type PromptBuilder struct{}

// BuildDocstringInstruction asks for a headers-plus-docstrings rendition of
// the given code: every defined class and function repeated with its
// signature and a generated docstring, no executable bodies. The output must
// parse as Python so it can be read back as a documentation tree.
func (pb *PromptBuilder) BuildDocstringInstruction() string {
	return strings.TrimSpace(`
For the python code below "code to be edited:" output ONLY the newly defined classes and
functions, keeping their structure and indentation, with detailed generated docstrings and
without the code inside. The rules are:
1. generate detailed docstrings in google format (max 90 characters per line)
2. cover EVERY defined function and class - if there are none, output the string: " "
3. do not write imports, called functions or other code or comments
4. if a function/class already has a docstring, improve it or reuse it if already well written
5. format: only output docstrings with the corresponding name of the function/class
   and its args in brackets: def/class name(args):\n"""\ndocstring\n"""
6. your output must be syntactically valid python
7. if no code is provided, output an empty string ""
8. Start your output with "start" and end with "end".

You may be given additional information about the repository this code is embedded in
under "additional information:" to better construe the variables and context of the code.
Do not create docstrings for that part.
`)
}

// BuildMergeInstruction asks the model to fold information that only exists
// in the old docstring into the new one.
func (pb *PromptBuilder) BuildMergeInstruction(oldDoc, newDoc string) string {
	return fmt.Sprintf(strings.TrimSpace(`
I want to update an old docstring to a new one. Compare these two and if there is any
information in the old one that is not in the new one, add it to the new one. If there is
no difference, just return the new docstring - no further notification. Maximal 90
characters per line. Your output should start with "start" and end with "end".
old docstring:
%s
new docstring:
%s
`), oldDoc, newDoc)
}
