// Package meta holds the defaults of the experiment command.
package meta

// GO_ROUTINES defines the number of goroutines to use.
const GO_ROUTINES = 8

// GAMES defines the number of games per match up.
const GAMES = 10

// DEPTH defines the iterative deepening limit for alpha-beta.
const DEPTH = 9

// PARALLEL_GAMES defines how many games of a match up run at once.
const PARALLEL_GAMES = 2

// MAX_MOVES stops games that run too long.
const MAX_MOVES = 300

// OUTPUT_DIR is where experiment records are stored.
const OUTPUT_DIR = "results"
