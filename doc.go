// Package appreciation measures how a series of purchases performed compared
// to benchmark references: a stock index, a fixed-income rate, or the asset
// actually bought.
//
// The core functionalities include:
//   - Portfolio building: joining every purchase to the benchmark value
//     observed at the exact same instant (see BuildPortfolio).
//   - Appreciation: the ratio of the value today to the value at purchase,
//     per purchase and weighted by the amount invested (see Calculate).
//     Purchases sold early are frozen at their sale proceeds and do not count
//     in the weighted appreciation.
//   - Datasets: purchases, benchmark records and sales read from JSONL files
//     or CSV directories (see LoadDataset).
//   - Configuration: the benchmarks to compare to and their current value,
//     either fixed or fetched from a JSON endpoint (see Config).
//
// This package serves as the foundational logic for the `apr` command-line
// tool.
package appreciation
