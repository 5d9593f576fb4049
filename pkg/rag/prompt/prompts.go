package prompt

import (
	"fmt"
	"strings"
)

// Output settings shared by summary and question generation.
const (
	GenerationMaxOutputTokens = 300
	GenerationTemperature     = 0.5
)

const summarySystemPrompt = "As a professional summarizer, create a concise and comprehensive summary of the provided text, be it an article, post, conversation, or passage, while adhering to these guidelines:\n" +
	"1. Craft a summary that is detailed, thorough, in-depth, and complex, while maintaining clarity and conciseness.\n" +
	"2. Incorporate main ideas and essential information, eliminating extraneous language and focusing on critical aspects.\n" +
	"3. Rely strictly on the provided text, without including external information.\n" +
	"4. Format the summary in paragraph form for easy understanding."

const quizSystemTemplate = `You are a highly knowledgeable assistant tasked with generating insightful and useful questions based on the provided document text. Your goal is to help a user deepen their understanding of the document's content, whether they are studying for a test, preparing for a discussion, or seeking a more comprehensive grasp of the material.

Instructions:

1. Generate questions that are clear, thought-provoking, and cover key concepts and details presented in the text.
2. Focus on the following question types: %s.
3. The number of questions should be proportional to the amount and complexity of the information in the text block.
4. Number each question for clarity and consistency.

Your goal is to ensure the questions facilitate a deeper understanding of the content, encourage critical thinking, and highlight essential themes and details.`

const qaSystemPrefix = "You are an assistant for question-answering tasks. Use the following pieces of retrieved context to answer the question. If you don't know the answer, just say that you don't know. Use three sentences maximum and keep the answer concise."

func Summary() string {
	return summarySystemPrompt
}

// Quiz builds the question generator instruction for the selected question types.
func Quiz(questionTypes []string) string {
	return fmt.Sprintf(quizSystemTemplate, strings.Join(questionTypes, ", "))
}

// QuizBlock wraps one page group's text in the question request.
func QuizBlock(text string) string {
	return "Generate a question or several questions based on the following text block.\n Text block: " + text
}

// QA builds the retrieval answer instruction around the retrieved passages.
func QA(passages []string) string {
	return qaSystemPrefix + "\n\n" + strings.Join(passages, "\n\n")
}
