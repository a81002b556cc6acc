// Package quark implements the front end of the Quark language. Source text
// is scanned into tokens and parsed into a typed abstract syntax tree:
//   - Declarations `number x = expr;` for the number, text, bool and char
//     (stored as text) types, checked against a flat symbol table.
//   - Reassignment with `=`, `+=`, `-=`, `*=`, `/=` and `++`/`--` updates.
//   - Binary expressions built by precedence climbing, type checked as they
//     are combined.
//   - `if (cond) { ... } else { ... }` as a statement or as a value.
//   - `exit(code);` to end the program.
//
// Comments use `//` and `/* */`. Parsing continues past a failed statement so
// one pass reports every independent error. A small tree-walking interpreter
// serves as the reference backend and enforces a step quota.
package quark
