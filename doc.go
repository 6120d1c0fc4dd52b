// Package crtfuse is a modular-residue fusion engine built on the Chinese
// Remainder Theorem.
//
// A feature vector is encoded into one residue distribution per coprime
// modulus, the residues are fused back into a single latent integer by CRT
// reconstruction, and the distance of the soft residues from the integer
// lattice is scored as a reconstruction error. Vectors whose error exceeds a
// threshold form the kernel; a graph over the kernel is summarized by its
// Betti numbers and turned into a differentiable-style homology loss.
// Attention weights are projected onto the Birkhoff polytope (doubly
// stochastic matrices) by Sinkhorn-Knopp and fused across moduli.
//
// Packages:
//
//	modarith/   — gcd, modular inverse and coprimality (int64 and big)
//	coprime/    — primality, moduli selection and named presets
//	crt/        — the reconstructor: Reconstruct, ReconstructBig, error, kernel
//	encoder/    — features → per-modulus residue distributions
//	matrix/     — dense float64 matrices used by the projector
//	birkhoff/   — Sinkhorn-Knopp projection and doubly-stochastic attention
//	attention/  — one attention head per modulus, fused by ln(m)/ln(P)
//	core/       — thread-safe undirected graph of kernel samples
//	dfs/        — connected components and cycle basis over core graphs
//	homology/   — kernel graph, Betti numbers and the cycle loss
//	layer/      — encoder + reconstructor + homology in one layer
//	config/     — YAML configuration and engine assembly
//	telemetry/  — slog loggers, Prometheus collectors, OpenTelemetry tracer
//	cmd/crtfuse — the command-line front end
//
// Quick start:
//
//	cfg, _ := config.Load("crtfuse.yaml")
//	eng, _ := cfg.Build(nil, nil)
//	out, _ := eng.Layer.ForwardBatch(ctx, features)
//	fmt.Println(out.TotalLoss, out.Betti.Beta0, out.Betti.Beta1)
package crtfuse
