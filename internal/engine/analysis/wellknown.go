package analysis

// wellKnownTypes are library types whose static calls are expected to stay
// unresolved without a warning.
var wellKnownTypes = []string{
	// java.lang
	"Boolean", "Byte", "Character", "Class", "ClassLoader", "Double", "Enum",
	"Float", "Integer", "Long", "Math", "Number", "Object", "Package",
	"Process", "ProcessBuilder", "Runtime", "Short", "StrictMath", "String",
	"StringBuffer", "StringBuilder", "System", "Thread", "ThreadGroup",
	"ThreadLocal", "Throwable", "Void", "Record", "Iterable", "Comparable",
	"CharSequence", "Runnable",
	// exceptions
	"Exception", "RuntimeException", "Error", "IllegalArgumentException",
	"IllegalStateException", "NullPointerException", "IndexOutOfBoundsException",
	"UnsupportedOperationException", "ArithmeticException", "NumberFormatException",
	// java.util
	"Arrays", "Collections", "Objects", "Optional", "List", "ArrayList",
	"LinkedList", "Map", "HashMap", "TreeMap", "LinkedHashMap", "Set", "HashSet",
	"TreeSet", "LinkedHashSet", "Scanner", "Random", "Iterator", "Queue",
	"Deque", "ArrayDeque", "Stack", "Vector", "Collection", "Comparator",
	"UUID", "Locale",
	// java.util.stream / function
	"Stream", "IntStream", "Collectors", "Function", "Supplier", "Consumer",
	"Predicate", "BiFunction",
}

func wellKnownSet(extra []string) map[string]bool {
	set := make(map[string]bool, len(wellKnownTypes)+len(extra))
	for _, name := range wellKnownTypes {
		set[name] = true
	}
	for _, name := range extra {
		if name != "" {
			set[name] = true
		}
	}
	return set
}
