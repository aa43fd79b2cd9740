/*
Package status renders plans, apply results and pattern previews for humans.

	+-----------+      +-----------+      +-----------+
	|  library  | ---> |  status   | ---> | terminal  |
	| PlanItem  |      | (tables)  |      | (pterm)   |
	+-----------+      +-----------+      +-----------+

🎯 Purpose:
- One table row per book file, colored by status
- A single summary line with counts and the bytes that will move
- Preview tables showing what a pattern extracts from sample names

Rendering never touches the filesystem; callers decide where the output goes.
*/
package status
