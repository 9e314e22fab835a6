package mcpserver

// QuerySyntax documents the query language accepted by the filter_notes,
// environment_stats and list_tags tools.
const QuerySyntax = `# notegraph Query Syntax

A query is a whitespace separated list of tokens. Every token is one of:

| Token       | Meaning                                                       |
|-------------|---------------------------------------------------------------|
| ` + "`#tag`" + `      | note carries ` + "`tag`" + ` or a descendant such as ` + "`tag/sub`" + `          |
| ` + "`!#tag`" + `     | note carries neither ` + "`tag`" + ` nor any descendant of it           |
| ` + "`>Name`" + `     | note links to the note whose name is ` + "`Name`" + `                  |
| ` + "`!>Name`" + `    | note does not link to the note named ` + "`Name`" + `                  |
| anything else | fuzzy matched against the note name                         |

## Combining predicates

Tag and link tokens are predicates. The ` + "`mode`" + ` argument decides how they
combine:

- ` + "`all`" + ` (default): every predicate must hold.
- ` + "`any`" + `: at least one predicate must hold.

A query without tag or link tokens places no constraint beyond the title.

## Title matching

All plain tokens are joined **without spaces** and matched as a
case-insensitive subsequence of the note name. ` + "`lie grp`" + ` becomes
` + "`liegrp`" + ` and matches "Lie Group". Notes whose name does not contain the
title as a subsequence are excluded. Results are ordered by match score, best
first; ties are ordered by note id.

## Names and ids

Link targets are resolved the way note ids are derived from file names:
trimmed, lowercased, whitespace runs replaced by ` + "`-`" + `. ` + "`>Lie Group`" + ` and
` + "`>lie-group`" + ` name the same note. Linking to a name no note carries is
allowed; such a predicate is simply never met.

## Examples

- ` + "`#diffgeo`" + `: every note tagged diffgeo or below.
- ` + "`#diffgeo !#draft >Manifold`" + `: finished diffgeo notes that link to Manifold.
- ` + "`#algebra #topology`" + ` with mode ` + "`any`" + `: notes in either area.
- ` + "`chart`" + `: notes whose name fuzzily matches "chart".
`
