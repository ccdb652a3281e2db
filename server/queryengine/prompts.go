package queryengine

import "fmt"

// cypherGenerationInstruction steers the model toward queries that
// actually match the graph's data conventions. Recipes and restaurants
// are disjoint subgraphs, property values are stored in varying case
// and number, and recipe types hang off the Category node.
const cypherGenerationInstruction = `Role:
You are an expert Neo4j developer generating Cypher queries based on the provided schema. Assume the user wants a real answer unless the question is clearly just "hello" or "hi". Do NOT define custom functions. Do NOT filter out real queries. Respond with the Cypher statement only.

Guidelines:
Keep restaurants and recipes separate. Never query them together since they are disjoint entities.

Use only explicit relationships and constraints. Do not add extra relationships unless the question explicitly requires them.

Use the Category node to classify the recipe type, for example "dessert" or "appetizer" or "smoothie". Always query Category when filtering recipe types.

Default to recipes for general questions. If the user asks about food without specifying, assume they mean recipes.

Check singular and plural forms for node properties. Example: if checking for "dessert", also check for "desserts".

Ensure case insensitivity for all node properties. Use toLower() or a case-insensitive regex to match property values.

Example:
MATCH (r:Recipe)-[:BELONGS_TO]->(c:Category),
    (r)-[:CONTAINS]->(i:Ingredient)
WHERE toLower(c.value) IN ["dessert", "desserts"]
AND toLower(i.name) IN ["strawberry", "strawberries"]
RETURN r.name AS RecipeName;`

// qaInstruction shapes the final answer: grounded in the query result,
// conversational in tone.
const qaInstruction = `You are an assistant that helps to form nice and human understandable answers. Generate your answer to the question only from the context provided unless the context is empty. You do not need to refer to the context when the user is exchanging pleasantries. Make sure all other responses come from the given context no matter the user's question.`

func cypherGenerationInput(schema, question string) string {
	return fmt.Sprintf("Schema:\n%s\n\nUser Question:\n%s", schema, question)
}

func qaInput(question, graphContext string) string {
	return fmt.Sprintf("Question: %s\nContext: %s", question, graphContext)
}
