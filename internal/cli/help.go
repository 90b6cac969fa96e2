package cli

const rootLong = `wizardql parses, validates, formats and evaluates filter expressions.

SYNTAX
  field = value & (other > 3 | tags : [a, b]) & !archived

  junctions    & && AND ^            | || OR V       (AND binds tighter)
  comparisons  = == EQUALS IS        != NEQ ISNT NOTEQUALS
               < LESS   > GREATER MORE   <= LEQ   >= GEQ
               : IN     !: NOTIN         ~ MATCHES   !~ NOTMATCHES
  negation     !field  !(group)
  arrays       [a, b] or {a, b}, only with IN and NOTIN
  quoting      "text" or 'text'; quoted values are never numbers or booleans

Constraints files (--constraints) declare field types and allowed, denied
or forbidden values in JSON, YAML or CUE.`

const rootExamples = `  wizardql fmt --junctions linguistic 'a = 1 & (b | !c)'
  wizardql --constraints rules.yaml parse 'status : [open, pending]'
  wizardql sql --dialect postgres 'age >= 18 & name ~ "^a"'
  cat people.jsonl | wizardql filter 'team != ops'
  wizardql --sqlite-path app.db select 'age > 30' --table people`
