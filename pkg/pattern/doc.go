/*
Package pattern expands file naming patterns against book metadata.

	  pattern + values
	         |
	+--------+--------+
	| optional blocks |   <primary|fallback>
	+--------+--------+
	         |
	+--------+--------+
	|  placeholders   |   {field} / {field:modifier}
	+--------+--------+
	         |
	      trimmed

🎯 Syntax:
  - {field} substitutes the value of field, or nothing when it is missing
  - {field:modifier} applies one of first, sort, initial, upper, lower
  - <primary> emits primary only when every field it names has a value
  - <primary|fallback> emits fallback when primary cannot be satisfied

The same grammar is used in both directions. Resolve builds a name out of
values, Extract pulls values back out of an existing name.

🔍 Example:

	name := pattern.Resolve("{authors:sort}/<{series} #{seriesIndex} - >{title}", map[string]string{
		"authors": "Frank Herbert",
		"title":   "Dune",
	})
	// name == "Herbert, Frank/Dune"
*/
package pattern
