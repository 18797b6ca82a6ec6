/*
Package layout assigns canvas coordinates to nodes purely from graph topology.

Apply is total, deterministic and idempotent: it never reads the incoming
positions, ignores edges that reference unknown nodes, and terminates on
cyclic graphs. Hosts may call it on every structural change.

# Algorithm

 1. Build forward and backward adjacency from the edges.
 2. Rank nodes by longest incoming path. A node met again while still on the
    walk stack reports rank 0, which breaks cycles without resolving them.
 3. Override ranks: a processing node that only feeds others sits one rank
    before its nearest successor; an output node without inputs joins the rank
    of its wired siblings, or DefaultOutputRank.
 4. Group nodes into layers by rank.
 5. Order the first layer by type priority, later layers by the barycenter of
    their placed predecessors.
 6. Lay layers out left to right: nextX = prevX + widest + ColumnGap.
 7. Stack each layer vertically, centred against the tallest layer.
 8. Nudge single-node layers toward the mean centre of their neighbours.
 9. Shift everything so the top-most node sits at TopMargin.
 10. Snap to GridPitch.
*/
package layout
