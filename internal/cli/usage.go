package cli

const usage = `Usage:
  cargomutate [--dir PATH] [--package NAME] [--examine GLOB]... [--exclude GLOB]...
              [--examine-re PATTERN]... [--exclude-re PATTERN]... [--timeout SECONDS]
              [--no-baseline] [--list-files] [--list-mutants] [--json PATH] [-v|--verbose]

Options:
  --dir PATH            Cargo workspace directory (default: .)
  --package NAME        Restrict to one workspace package (default: all)
  --examine GLOB        Only mutate files matching GLOB (repeatable)
  --exclude GLOB        Skip files matching GLOB (repeatable)
  --examine-re PATTERN  Only keep mutants whose display text matches PATTERN (repeatable)
  --exclude-re PATTERN  Drop mutants whose display text matches PATTERN (repeatable)
  --timeout SECONDS     Per-subprocess timeout in seconds (default: 300)
  --list-files          Print the files that would be scanned and exit
  --list-mutants        Print the mutants that would be applied and exit
  --no-baseline         Skip the unmutated baseline check/build/test pass
  --json PATH           Write a machine-readable JSON summary to PATH
  -v, --verbose         Print debug-level diagnostics
  -h, --help            Show this help text
`

func Usage() string {
	return usage
}
