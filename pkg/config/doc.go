/*
Package config loads and validates booknamer configuration.

	            +-------------+
	            |   Config    |
	            | (Settings)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+-----+ +----+----+ +-----+-----+
	|   YAML    | |   HCL   | |   JSON    |
	|  Parser   | | Parser  | |  Parser   |
	+-----------+ +---------+ +-----------+

🎯 Purpose:
- Picks a parser from the file extension
- Rejects unknown fields
- Fills in defaults (include globs, catalog location, concurrency)
- Validates every naming pattern against the fields books provide

🔍 Example (HCL):

	library_root    = "${env.HOME}/Books"
	default_pattern = "{authors:sort}/<{series}/{seriesIndex} - >{title}"

	library "comics" {
	  path    = "comics"
	  pattern = "<{series}/{seriesIndex} - |{authors:sort}/>{title}"
	}
*/
package config
