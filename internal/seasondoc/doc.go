// Package seasondoc reads and writes season data files.
//
// A season data file lists the anime airing in one season together with the
// identifiers each title carries on the external tracking services:
//
//	<season>
//		<info><name>Winter 2018</name><modified>1516406400</modified></info>
//		<anime>
//			<id name="myanimelist">35838</id>
//			<title>...</title>
//			<type>1</type>
//			<image>...</image>
//			<trailer>...</trailer>
//			<producers>Studio A, Studio B</producers>
//		</anime>
//	</season>
//
// Input may carry a UTF-8 or UTF-16 byte-order mark. Files written by this
// package are tab indented and start with a UTF-8 byte-order mark.
package seasondoc
