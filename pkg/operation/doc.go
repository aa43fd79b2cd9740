/*
Package operation implements the commands booknamer runs against a library.

	+-------------+
	|   config    |
	+------+------+
	       |
	+------+------+      +-------------+
	|  Operation  | ---> |   catalog   |
	| plan/apply/ |      |  (journal)  |
	|    undo     |      +-------------+
	+------+------+
	       |
	+------+------+
	|   library   |
	| (scan/move) |
	+-------------+

🎯 Purpose:
- Plan shows where every book would move without touching anything
- Apply moves books and journals each move under one batch id
- Undo reverses the most recent batch, newest move first

🔄 Flow:
1. Scan the library root for book files
2. Read book metadata from the catalog
3. Resolve every target through the configured pattern
4. Move, journal and report

🤝 Interfaces:
- Store: catalog access, satisfied by *catalog.Catalog
- library.Mover: filesystem access, satisfied by library.OSMover

Operations are run through a Runner, which can execute them in the
background while still honouring context cancellation.
*/
package operation
